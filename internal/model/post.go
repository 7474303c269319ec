package model

import "time"

// Post is a content row.
type Post struct {
	PostID    int64  `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"type:varchar(36);index:idx_post_author;not null"`
	Content   string `gorm:"type:text"`
	ImageDir  string `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Post) TableName() string { return "posts" }

// Hashtag is a unique tag name.
type Hashtag struct {
	HashtagID int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedAt time.Time
}

func (Hashtag) TableName() string { return "hashtags" }

// PostHashtag links a post to a hashtag.
// idx_post_hashtag_pair = (post_id, hashtag_id)
type PostHashtag struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	PostID    int64 `gorm:"index:idx_post_hashtag_post;index:idx_post_hashtag_pair,unique;not null"`
	HashtagID int64 `gorm:"index:idx_post_hashtag_tag;index:idx_post_hashtag_pair,unique;not null"`
	CreatedAt time.Time
}

func (PostHashtag) TableName() string { return "post_hashtags" }
