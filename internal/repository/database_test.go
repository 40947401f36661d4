package repository

import (
	"errors"
	"testing"

	"github.com/iseven/vnu-connect-x/internal/config"
	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// createTestLearner creates a learner with the given name, major and xp.
func createTestLearner(t *testing.T, db *DB, name, major string, xp int) *models.Learner {
	t.Helper()

	learner := &models.Learner{
		Name:  name,
		MSSV:  "MSSV-" + name,
		Major: major,
		XP:    xp,
	}
	if err := NewLearnerRepository(db).Create(learner); err != nil {
		t.Fatalf("Failed to create test learner: %v", err)
	}
	return learner
}

func TestNewDB_UnsupportedDriver(t *testing.T) {
	_, err := NewDB(&config.DatabaseConfig{Driver: "mysql"}, logger.Nop())
	if err == nil {
		t.Fatal("Expected error for unsupported driver")
	}
}

func TestNewDB_SQLite(t *testing.T) {
	db, err := NewDB(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		SQLite: config.SQLiteConfig{Path: ":memory:"},
	}, logger.Nop())
	if err != nil {
		t.Fatalf("NewDB() failed: %v", err)
	}
	defer db.Close()

	if err := db.Health(); err != nil {
		t.Errorf("Health() failed: %v", err)
	}
	if err := db.AutoMigrate(); err != nil {
		t.Errorf("AutoMigrate() failed: %v", err)
	}
}

func TestNotFoundTranslation(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewLearnerRepository(db).GetByID(42)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected models.ErrNotFound, got %v", err)
	}

	_, err = NewPathwayRepository(db).GetByID(42)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected models.ErrNotFound, got %v", err)
	}

	_, err = NewCatalogRepository(db).GetMentor(42)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected models.ErrNotFound, got %v", err)
	}
}
