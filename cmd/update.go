package cmd

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"photo-gallery/pkg/config"
	"photo-gallery/pkg/services"
)

// newUpdateCmd creates a new command for rescanning the photos folder
func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Scan the photos folder and update the manifest",
		Long: `Scan the photos folder and rewrite the manifest with one entry per image.
Captions are derived from filenames; captions edited by hand in the manifest are kept.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			RunUpdate(cfg, cmd.OutOrStdout())
		},
	}
}

// RunUpdate rescans the source folder and prints the resulting manifest
func RunUpdate(cfg *config.Config, out io.Writer) {
	svc := services.NewService(cfg)
	svc.SetOutput(out)

	fmt.Fprintln(out, "Scanning photos folder...")
	fmt.Fprintln(out)

	photos, err := svc.UpdateManifest()
	if err != nil {
		log.Fatalf("Failed to update manifest: %v", err)
	}

	if len(photos) == 0 {
		fmt.Fprintf(out, "No images found in '%s/'\n", cfg.SourceDir)
		fmt.Fprintln(out, "\nAdd some images and run this command again!")
		fmt.Fprintf(out, "Supported formats: %s\n", strings.Join(cfg.Extensions, ", "))
		return
	}

	fmt.Fprintf(out, "Found %d photos:\n\n", len(photos))
	for i, p := range photos {
		fmt.Fprintf(out, "  %d. %s\n", i+1, p.Src)
		fmt.Fprintf(out, "     Caption: %s\n\n", p.Alt)
	}

	fmt.Fprintf(out, "Updated %s\n", cfg.ManifestPath)
	fmt.Fprintf(out, "\nTip: Edit %s directly to customize captions!\n", cfg.ManifestPath)
}
