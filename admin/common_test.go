package admin

import (
	"testing"

	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/testutil"
	"gorm.io/gorm"
)

// setupTestStore creates a test database and admin store for testing.
func setupTestStore(t *testing.T) (*gorm.DB, Store) {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &Admin{})

	return db, NewMySQLStore(db, logger.NewTestLogger())
}

// createTestAdmin creates an admin with default values.
func createTestAdmin(t *testing.T, email, name, password string) *Admin {
	a := &Admin{
		Email:    email,
		Name:     name,
		IsActive: true,
	}
	if err := a.SetPassword(password); err != nil {
		t.Fatalf("failed to set password: %v", err)
	}
	return a
}
