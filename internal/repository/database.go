// Package repository provides data access layer using GORM for database operations.
package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/iseven/vnu-connect-x/internal/config"
	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// DB holds the database connection.
type DB struct {
	*gorm.DB
}

// NewDB opens the database selected by cfg.Driver.
func NewDB(cfg *config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	// Configure GORM logger
	var gormLogLevel gormlogger.LogLevel
	switch log.GetLogger().GetLevel() {
	case 0: // debug
		gormLogLevel = gormlogger.Info
	default:
		gormLogLevel = gormlogger.Warn
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel),
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		return openSQLite(cfg.SQLite.Path, gormConfig, log)
	case config.DriverPostgres:
		return openPostgres(&cfg.Postgres, gormConfig, log)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// NewSQLiteDB opens a sqlite database at dsn with a quiet GORM logger. Used by tests and the CLI.
func NewSQLiteDB(dsn string) (*DB, error) {
	return openSQLite(dsn, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}, logger.Nop())
}

func openSQLite(dsn string, gormConfig *gorm.Config, log *logger.Logger) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// sqlite serializes writers; a single connection also keeps :memory: databases shared.
	sqlDB.SetMaxOpenConns(1)

	log.Info().Str("dsn", dsn).Msg("Opened SQLite database")

	return &DB{db}, nil
}

func openPostgres(cfg *config.PostgresConfig, gormConfig *gorm.Config, log *logger.Logger) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("Connected to PostgreSQL")

	return &DB{db}, nil
}

// AutoMigrate runs database migrations for all models.
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.Learner{},
		&models.Pathway{},
		&models.Mission{},
		&models.Project{},
		&models.Mentor{},
	)
}

// Close closes the database connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health checks if the database is healthy.
func (db *DB) Health() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// notFound maps gorm.ErrRecordNotFound to models.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}
