// Package database opens the stub server's gorm handle. The DSN picks the
// driver: empty means a shared in-memory sqlite, a postgres:// URL means
// postgres, anything else is treated as a sqlite file path.
package database

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/doremi/internal/model"
)

func Open(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch {
	case dsn == "":
		return gorm.Open(sqlite.Open("file::memory:?cache=shared"), cfg)
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return gorm.Open(sqlite.Open(dsn), cfg)
	}
}

// Migrate creates or updates every table the stub uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Hashtag{},
		&model.PostHashtag{},
		&model.Comment{},
		&model.Like{},
		&model.Bookmark{},
		&model.Follow{},
		&model.Inbox{},
		&model.Outbox{},
	)
}
