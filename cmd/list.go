package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"photo-gallery/pkg/services"
)

// newListCmd creates a new command for printing the manifest
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the photos in the manifest",
		Long:  `List the entries of the current manifest, whichever command wrote it.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			svc := services.NewService(cfg)

			items, err := svc.GalleryItems()
			if err != nil {
				log.Fatalf("Failed to read manifest: %v", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Photos in %s:\n", cfg.ManifestPath)
			fmt.Fprintln(out, "================")
			for i, item := range items {
				fmt.Fprintf(out, "%d. %s\n", i+1, item.Src)
				if item.Alt != "" {
					fmt.Fprintf(out, "   Caption: %s\n", item.Alt)
				}
				if item.Thumb != "" {
					fmt.Fprintf(out, "   Thumbnail: %s\n", item.Thumb)
				}
			}
			fmt.Fprintf(out, "\nTotal: %d photos\n", len(items))
		},
	}
}
