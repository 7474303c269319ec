package store

import (
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted key-value row.
type Entry struct {
	Key   string `gorm:"primaryKey;type:varchar(128)"`
	Value string `gorm:"type:text"`
}

func (Entry) TableName() string { return "kv_entries" }

// DB persists values through gorm (sqlite file in practice). Availability is
// probed once on first use and cached for the process lifetime; a broken
// database degrades to the absent-value behavior, silently.
type DB struct {
	db *gorm.DB

	probeOnce sync.Once
	available bool
}

// NewDB wraps an opened gorm handle.
func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

func (s *DB) ok() bool {
	s.probeOnce.Do(func() {
		if s.db == nil {
			return
		}
		if err := s.db.AutoMigrate(&Entry{}); err != nil {
			return
		}
		probe := Entry{Key: "__storage_test__", Value: "__storage_test__"}
		if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&probe).Error; err != nil {
			return
		}
		if err := s.db.Delete(&Entry{}, "key = ?", probe.Key).Error; err != nil {
			return
		}
		s.available = true
	})
	return s.available
}

func (s *DB) Get(key string) (string, bool) {
	if !s.ok() {
		return "", false
	}
	var e Entry
	if err := s.db.First(&e, "key = ?", key).Error; err != nil {
		return "", false
	}
	return e.Value, true
}

func (s *DB) Set(key, value string) bool {
	if !s.ok() {
		return false
	}
	e := Entry{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error == nil
}

func (s *DB) Remove(key string) bool {
	if !s.ok() {
		return false
	}
	return s.db.Delete(&Entry{}, "key = ?", key).Error == nil
}
