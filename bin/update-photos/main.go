// Command update-photos scans photos/ and updates photos.json. It takes no
// arguments; drop images into the folder and run it.
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

	cmd.RunUpdate(cfg, os.Stdout)
}
