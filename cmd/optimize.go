package cmd

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"photo-gallery/pkg/config"
	"photo-gallery/pkg/services"
)

// Command options
var (
	thumbSize     int
	optimizedSize int
	quality       int
)

// newOptimizeCmd creates a new command for generating derivative images
func newOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Generate thumbnail and lightbox images and point the manifest at them",
		Long: `Generate a thumbnail and an optimized JPEG for every image in the photos folder.
The manifest is overwritten with entries for the images that were processed successfully.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}

			flags := cmd.Flags()
			if flags.Changed("thumb-size") {
				cfg.ThumbSize = thumbSize
			}
			if flags.Changed("optimized-size") {
				cfg.OptimizedSize = optimizedSize
			}
			if flags.Changed("quality") {
				cfg.Quality = quality
			}
			if err := cfg.Validate(); err != nil {
				log.Fatalf("Invalid configuration: %v", err)
			}

			RunOptimize(cfg, cmd.OutOrStdout())
		},
	}

	// Add command-specific flags
	cmd.Flags().IntVarP(&thumbSize, "thumb-size", "t", config.DefaultThumbSize, "Longest edge of thumbnails in pixels")
	cmd.Flags().IntVarP(&optimizedSize, "optimized-size", "o", config.DefaultOptimizedSize, "Longest edge of lightbox images in pixels")
	cmd.Flags().IntVarP(&quality, "quality", "q", config.DefaultQuality, "JPEG quality (1-100)")

	return cmd
}

// RunOptimize generates the derivatives and rewrites the manifest
func RunOptimize(cfg *config.Config, out io.Writer) {
	// Every configured format must be decodable before any work starts
	if err := services.CheckCapabilities(cfg.Extensions); err != nil {
		log.Fatalf("Image support is incomplete: %v", err)
	}

	svc := services.NewService(cfg)
	svc.SetOutput(out)

	if _, err := svc.OptimizePhotos(); err != nil {
		log.Fatalf("Failed to optimize photos: %v", err)
	}
}
