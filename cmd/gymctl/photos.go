package main

import (
	"context"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/aigymos/gym-console/internal/infrastructure/storage"
	"github.com/aigymos/gym-console/pkg/config"
)

func newPhotosCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos",
		Short: "Archived OCR photos",
	}

	var (
		prefix  string
		timeout time.Duration
	)
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List archived photos using the STORAGE_* settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.StorageConfig
			if err := envconfig.Process("STORAGE", &cfg); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client, err := storage.NewMinIOClient(ctx, cfg)
			if err != nil {
				return err
			}
			objects, err := client.ListFiles(ctx, prefix)
			if err != nil {
				return err
			}
			if objects == nil {
				objects = []storage.ObjectInfo{}
			}
			return opts.render(cmd.OutOrStdout(), objects)
		},
	}
	ls.Flags().StringVar(&prefix, "prefix", "ocr/", "object key prefix, e.g. ocr/<gym id>/")
	ls.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	cmd.AddCommand(ls)
	return cmd
}
