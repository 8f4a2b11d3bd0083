package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"ebookshelf/internal/storage"
)

// AssetReferencer reports which asset filenames are referenced by catalog records.
type AssetReferencer interface {
	AssetReferences() (covers []string, pdfs []string, err error)
}

// AssetSweeper deletes stored files that are not in the known set.
type AssetSweeper interface {
	Sweep(known map[storage.Kind][]string) (int, error)
}

// CleanupOrphanAssetsTask removes uploaded files no catalog record points at.
type CleanupOrphanAssetsTask struct{}

// Config returns the queue configuration for asset cleanup tasks.
func (t CleanupOrphanAssetsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_assets",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphanAssetsProcessor creates a processor function for CleanupOrphanAssetsTask.
func CleanupOrphanAssetsProcessor(books AssetReferencer, store AssetSweeper) backlite.QueueProcessor[CleanupOrphanAssetsTask] {
	return func(ctx context.Context, task CleanupOrphanAssetsTask) error {
		if books == nil || store == nil {
			return fmt.Errorf("asset cleanup dependencies not configured")
		}

		covers, pdfs, err := books.AssetReferences()
		if err != nil {
			return fmt.Errorf("collect asset references: %w", err)
		}

		removed, err := store.Sweep(map[storage.Kind][]string{
			storage.KindCover: covers,
			storage.KindPDF:   pdfs,
		})
		if err != nil {
			return fmt.Errorf("sweep orphan assets: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d orphan asset files", removed)
		return nil
	}
}

// NewCleanupOrphanAssetsQueue creates a backlite queue for asset cleanup tasks.
func NewCleanupOrphanAssetsQueue(books AssetReferencer, store AssetSweeper) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanAssetsProcessor(books, store))
}
