package testutil

import (
	"testing"

	"gorm.io/gorm"
)

// CreateFixture inserts model, failing the test on error. Hooks such as
// BeforeCreate run as they would in production code.
func CreateFixture(t *testing.T, db *gorm.DB, model interface{}) {
	t.Helper()
	if err := db.Create(model).Error; err != nil {
		t.Fatalf("failed to create fixture %T: %v", model, err)
	}
}

// CreateFixtures inserts each model in order.
func CreateFixtures(t *testing.T, db *gorm.DB, models ...interface{}) {
	t.Helper()
	for _, model := range models {
		CreateFixture(t, db, model)
	}
}
