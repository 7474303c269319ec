package social

// Wire shapes as the backend actually sends them. Post fields are camelCase,
// comment fields SCREAMING_SNAKE — this asymmetry is the server's, not ours.

// Post is a raw post record.
type Post struct {
	PostID       int64         `json:"postId"`
	Content      string        `json:"content"`
	CreatedAt    string        `json:"createdAt"`
	UserID       string        `json:"userId"`
	Username     string        `json:"username,omitempty"`
	LikeCount    int           `json:"likeCount,omitempty"`
	CommentCount int           `json:"commentCount,omitempty"`
	ImageDir     string        `json:"imageDir,omitempty"`
	Hashtags     []PostHashtag `json:"hashtags,omitempty"`
}

// PostHashtag is a hashtag attached to a post.
type PostHashtag struct {
	HashtagID   int64  `json:"hashtagId"`
	HashtagName string `json:"hashtagName"`
}

// Comment is a raw comment record; replies are populated on top-level
// comments only.
type Comment struct {
	CommentID       int64     `json:"COMMENT_ID"`
	ParentCommentID *int64    `json:"PARENT_COMMENT_ID"`
	CreatedAt       string    `json:"CREATED_AT"`
	PostID          int64     `json:"POST_ID"`
	UserID          string    `json:"USER_ID"`
	Text            string    `json:"TEXT"`
	Username        string    `json:"username,omitempty"`
	Replies         []Comment `json:"replies,omitempty"`
}

// AutocompleteItem is one hashtag autocomplete candidate.
type AutocompleteItem struct {
	HashtagName string `json:"hashtagName"`
	PostCount   int    `json:"postCount"`
}

// UserSummary is a recommended-user row.
type UserSummary struct {
	UserID string `json:"USER_ID"`
	Name   string `json:"NAME"`
}
