package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"inkpost/internal/config"
	"inkpost/internal/model"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Open returns a connected GORM DB instance for the configured driver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		return NewPostgres(cfg.DatabaseURL)
	case DriverMySQL:
		return NewMySQL(cfg.MySQLDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// NewPostgres returns a connected GORM DB instance backed by PostgreSQL.
func NewPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// NewMySQL returns a connected GORM DB instance backed by MySQL.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

type fullTextIndex struct {
	name   string
	column string
}

var postSearchIndexes = []fullTextIndex{
	{name: "idx_posts_title_fts", column: "title"},
	{name: "idx_posts_content_fts", column: "content"},
}

// Migrate creates the tables and the full-text indexes used by post search.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Profile{}, &model.Post{}, &model.Comment{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	for _, idx := range postSearchIndexes {
		if db.Migrator().HasIndex(&model.Post{}, idx.name) {
			continue
		}
		stmt, err := fullTextIndexSQL(db.Dialector.Name(), idx)
		if err != nil {
			return err
		}
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}

func fullTextIndexSQL(dialect string, idx fullTextIndex) (string, error) {
	switch dialect {
	case DriverPostgres:
		return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON posts USING GIN (to_tsvector('english', %s))", idx.name, idx.column), nil
	case DriverMySQL:
		return fmt.Sprintf("CREATE FULLTEXT INDEX %s ON posts (%s)", idx.name, idx.column), nil
	default:
		return "", fmt.Errorf("full-text search is not supported on %q", dialect)
	}
}
