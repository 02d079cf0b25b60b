package main

import (
	"context"
	"fmt"

	"github.com/hairizuanbinnoorazman/wise-institute/media"
	"github.com/hairizuanbinnoorazman/wise-institute/storage"
	"github.com/spf13/cobra"
)

var (
	mediaID    string
	mediaTitle string
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage media records in the local content store",
}

var mediaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a media record",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, sqlDB, log, err := openDatabase()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if cfg.Content.Backend != ContentBackendGorm {
			return fmt.Errorf("records are managed by the %s content store", cfg.Content.Backend)
		}

		ctx := context.Background()
		blobs, err := storage.New(ctx, cfg.storageConfig())
		if err != nil {
			return fmt.Errorf("failed to initialize blob storage: %w", err)
		}

		store := media.NewGormStore(db, blobs, cfg.Content.AssetBaseURL, log)
		rec := &media.Record{
			ID:          mediaID,
			ContentType: cfg.Content.ExpectedType,
			Title:       mediaTitle,
		}
		if err := store.CreateRecord(ctx, rec); err != nil {
			return fmt.Errorf("failed to create record: %w", err)
		}

		fmt.Printf("Created %s record %s\n", rec.ContentType, rec.ID)
		return nil
	},
}

func init() {
	mediaCreateCmd.Flags().StringVar(&mediaID, "id", "", "record id (generated when empty)")
	mediaCreateCmd.Flags().StringVar(&mediaTitle, "title", "", "record title")
	_ = mediaCreateCmd.MarkFlagRequired("title")

	mediaCmd.AddCommand(mediaCreateCmd)
	rootCmd.AddCommand(mediaCmd)
}
