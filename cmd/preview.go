package cmd

import (
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"photo-gallery/pkg/config"
	"photo-gallery/pkg/handlers"
	"photo-gallery/pkg/services"
)

// newPreviewCmd creates a new command for previewing the gallery locally
func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Start a local web server previewing the gallery",
		Long:  `Start a web server that renders the manifest and serves the photo folders from the working directory.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			servePreview(cfg)
		},
	}
}

// servePreview runs the web server until it fails
func servePreview(cfg *config.Config) {
	h, err := handlers.New(services.NewService(cfg))
	if err != nil {
		log.Fatalf("Failed to compile templates: %v", err)
	}

	mux := http.NewServeMux()
	h.Register(mux)

	cfg.PrintServerStartMessage()
	if err := http.ListenAndServe(cfg.ServerAddress(), mux); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}
