package model

import "time"

// Inbox is one precomputed following-feed item, sharded by user_id.
// ux_inbox_user_post = (user_id, post_id)
type Inbox struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);index:idx_inbox_user;uniqueIndex:ux_inbox_user_post"`
	PostID    int64  `gorm:"index:idx_inbox_post;uniqueIndex:ux_inbox_user_post"`
	Score     int64  `gorm:"index:idx_inbox_user_score"`
	CreatedAt time.Time
}

func (Inbox) TableName() string { return "inbox" }

// Outbox statuses.
const (
	OutboxPending    = "pending"
	OutboxProcessing = "processing"
	OutboxDone       = "done"
)

// Outbox is a publish event awaiting fan-out into follower inboxes.
type Outbox struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	PostID      int64     `gorm:"uniqueIndex"`
	AuthorID    string    `gorm:"type:varchar(36);index:idx_outbox_author"`
	Status      string    `gorm:"type:varchar(16);index"`
	CreatedAt   time.Time `gorm:"index"`
	ProcessedAt *time.Time
	FanoutCount int64
}

func (Outbox) TableName() string { return "outbox" }
