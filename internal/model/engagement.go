package model

import "time"

// Like marks that a user likes a post.
// idx_like_pair = (post_id, user_id)
type Like struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	PostID    int64  `gorm:"index:idx_like_post;index:idx_like_pair,unique;not null"`
	UserID    string `gorm:"type:varchar(36);index:idx_like_pair,unique;not null"`
	CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }

// Bookmark marks that a user saved a post.
// idx_bookmark_pair = (post_id, user_id)
type Bookmark struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	PostID    int64  `gorm:"index:idx_bookmark_post;index:idx_bookmark_pair,unique;not null"`
	UserID    string `gorm:"type:varchar(36);index:idx_bookmark_user;index:idx_bookmark_pair,unique;not null"`
	CreatedAt time.Time
}

func (Bookmark) TableName() string { return "bookmarks" }
