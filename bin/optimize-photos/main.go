// Command optimize-photos writes thumbnail and lightbox JPEGs for every image
// in photos/ and points photos.json at them. It takes no arguments.
package main

import (
	"log"
	"os"

	"photo-gallery/cmd"
	"photo-gallery/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cmd.RunOptimize(cfg, os.Stdout)
}
