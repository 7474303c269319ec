package model

import "time"

// User is an account row. The id is the user-chosen handle, not a surrogate
// key, matching how the rest of the schema references users.
type User struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Name      string `gorm:"type:varchar(64);not null"`
	Password  string `gorm:"type:varchar(128);not null"` // bcrypt hash
	Sex       string `gorm:"type:varchar(1)"`            // M or F
	BirthStr  string `gorm:"type:varchar(8)"`            // YYYYMMDD
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }
