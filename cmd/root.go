package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"photo-gallery/pkg/config"
	"photo-gallery/pkg/logger"
)

// Configuration flags
var (
	configPath string
	bucketName string
	portNumber string
	verbose    bool
	jsonLog    bool
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "photo-gallery",
		Short: "Photo Gallery maintains the manifest and derivative images of a static photo gallery",
		Long: `Photo Gallery is a command line application that keeps a static photo gallery in shape.
It scans the photos folder into a JSON manifest, generates thumbnail and lightbox sized
JPEGs, previews the result locally and publishes it to Google Cloud Storage.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(verbose, jsonLog)
		},
	}

	// Define persistent flags that will be available for all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&bucketName, "bucket", "b", "", "Set the BUCKET_NAME (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&portNumber, "port", "p", "", "Set the PORT (overrides environment variable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Log as JSON lines")

	// Add commands to root
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newOptimizeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newPublishCmd())

	return rootCmd
}

// LoadConfig loads configuration with respect to command line flags
func LoadConfig() (*config.Config, error) {
	// Set environment variables from flags if provided
	if bucketName != "" {
		os.Setenv("BUCKET_NAME", bucketName)
	}

	if portNumber != "" {
		os.Setenv("PORT", portNumber)
	}

	// Load configuration from the file and environment variables (potentially set above)
	return config.Load(configPath)
}
