package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"photo-gallery/pkg/services"
)

var (
	bucketPrefix   string
	publishTimeout time.Duration
)

// newPublishCmd creates a new command for uploading the gallery to a bucket
func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload photos, derivatives and the manifest to Google Cloud Storage",
		Long: `Upload the photos folder, both derivative folders and the manifest to the bucket named
by --bucket or BUCKET_NAME. Objects whose size and checksum already match are skipped.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			if cmd.Flags().Changed("prefix") {
				cfg.BucketPrefix = bucketPrefix
			}

			svc := services.NewService(cfg)
			svc.SetOutput(cmd.OutOrStdout())

			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			defer cancel()

			if _, err := svc.Publish(ctx); err != nil {
				log.Fatalf("Failed to publish gallery: %v", err)
			}
		},
	}

	cmd.Flags().StringVar(&bucketPrefix, "prefix", "", "Object name prefix inside the bucket")
	cmd.Flags().DurationVar(&publishTimeout, "timeout", 30*time.Minute, "Give up after this long")

	return cmd
}
