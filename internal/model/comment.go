package model

import "time"

// Comment is one comment row. ParentCommentID is nil for top-level comments;
// the tree never nests deeper than one reply level.
type Comment struct {
	CommentID       int64  `gorm:"primaryKey;autoIncrement"`
	ParentCommentID *int64 `gorm:"index:idx_comment_parent"`
	PostID          int64  `gorm:"index:idx_comment_post;not null"`
	UserID          string `gorm:"type:varchar(36);not null"`
	Text            string `gorm:"type:text;not null"`
	CreatedAt       time.Time
}

func (Comment) TableName() string { return "comments" }
