package media

import (
	"testing"

	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/storage"
	"github.com/hairizuanbinnoorazman/wise-institute/testutil"
	"gorm.io/gorm"
)

const testAssetBaseURL = "//media.example.com/assets"

// setupTestStore creates a test database, local blob storage and media store.
func setupTestStore(t *testing.T) (*gorm.DB, storage.BlobStorage, *GormStore) {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &Record{}, &Asset{})

	blobs, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create blob storage: %v", err)
	}

	return db, blobs, NewGormStore(db, blobs, testAssetBaseURL+"/", logger.NewTestLogger())
}

// createTestRecord creates a record of the media item type.
func createTestRecord(title string, thumbs ...string) *Record {
	rec := &Record{
		ContentType: ContentTypeWiseInstitute,
		Title:       title,
	}
	for _, id := range thumbs {
		rec.Thumbnails = append(rec.Thumbnails, AssetLink(id))
	}
	return rec
}
