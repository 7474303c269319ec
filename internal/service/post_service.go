package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/doremi/internal/model"
	"github.com/d60-Lab/doremi/internal/repository"
)

// HashtagView is a tag as the API presents it.
type HashtagView struct {
	HashtagID   int64  `json:"hashtagId"`
	HashtagName string `json:"hashtagName"`
}

// PostView is a post decorated with everything the feed needs in one row.
type PostView struct {
	PostID       int64         `json:"postId"`
	Content      string        `json:"content"`
	CreatedAt    string        `json:"createdAt"`
	UserID       string        `json:"userId"`
	Username     string        `json:"username,omitempty"`
	LikeCount    int           `json:"likeCount"`
	CommentCount int           `json:"commentCount"`
	ImageDir     string        `json:"imageDir,omitempty"`
	Hashtags     []HashtagView `json:"hashtags,omitempty"`
}

type PostService interface {
	// Publish lands the post and its fan-out event in one transaction, then
	// attaches hashtags. hashtagsCSV is the comma-separated client form.
	Publish(ctx context.Context, authorID, content, hashtagsCSV, imageDir string) (int64, error)
	Get(ctx context.Context, postID int64) (*PostView, error)
	Delete(ctx context.Context, postID int64, userID string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*PostView, error)
	Recommended(ctx context.Context, viewerID string, limit int) ([]*PostView, error)
	// Following reads the viewer's precomputed inbox timeline.
	Following(ctx context.Context, viewerID string, limit int) ([]*PostView, error)
	ViewsByIDs(ctx context.Context, ids []int64) ([]*PostView, error)
}

type postService struct {
	db          *gorm.DB
	posts       repository.PostRepository
	users       repository.UserRepository
	engagements repository.EngagementRepository
	hashtags    repository.HashtagRepository
	timeline    repository.TimelineRepository
}

func NewPostService(
	db *gorm.DB,
	posts repository.PostRepository,
	users repository.UserRepository,
	engagements repository.EngagementRepository,
	hashtags repository.HashtagRepository,
	timeline repository.TimelineRepository,
) PostService {
	return &postService{db: db, posts: posts, users: users, engagements: engagements, hashtags: hashtags, timeline: timeline}
}

// ParseHashtags splits the client's comma form ("고양이, 귀여움") into clean
// tag names: trimmed, leading '#' stripped, lowercased, deduplicated.
func ParseHashtags(csv string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, raw := range strings.Split(csv, ",") {
		name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func (s *postService) Publish(ctx context.Context, authorID, content, hashtagsCSV, imageDir string) (int64, error) {
	post := &model.Post{UserID: authorID, Content: content, ImageDir: imageDir}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return s.timeline.EnqueueOutbox(tx, post.PostID, authorID)
	})
	if err != nil {
		return 0, err
	}
	for _, name := range ParseHashtags(hashtagsCSV) {
		h, err := s.hashtags.Ensure(ctx, name)
		if err != nil {
			return 0, err
		}
		if err := s.hashtags.Attach(ctx, post.PostID, h.HashtagID); err != nil {
			return 0, err
		}
	}
	return post.PostID, nil
}

func (s *postService) Get(ctx context.Context, postID int64) (*PostView, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrPostGone
		}
		return nil, err
	}
	views, err := s.decorate(ctx, []*model.Post{p})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *postService) Delete(ctx context.Context, postID int64, userID string) error {
	deleted, err := s.posts.Delete(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPostGone
	}
	return nil
}

func (s *postService) ListByUser(ctx context.Context, userID string, limit int) ([]*PostView, error) {
	posts, err := s.posts.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, posts)
}

func (s *postService) Recommended(ctx context.Context, viewerID string, limit int) ([]*PostView, error) {
	posts, err := s.posts.ListRecommended(ctx, viewerID, limit)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, posts)
}

func (s *postService) Following(ctx context.Context, viewerID string, limit int) ([]*PostView, error) {
	ids, err := s.timeline.ListInboxPostIDs(ctx, viewerID, limit)
	if err != nil {
		return nil, err
	}
	return s.ViewsByIDs(ctx, ids)
}

// ViewsByIDs preserves the order of ids.
func (s *postService) ViewsByIDs(ctx context.Context, ids []int64) ([]*PostView, error) {
	posts, err := s.posts.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Post, len(posts))
	for _, p := range posts {
		byID[p.PostID] = p
	}
	ordered := make([]*model.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return s.decorate(ctx, ordered)
}

func (s *postService) decorate(ctx context.Context, posts []*model.Post) ([]*PostView, error) {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.PostID
	}
	tags, err := s.hashtags.TagsByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	views := make([]*PostView, 0, len(posts))
	for _, p := range posts {
		if _, ok := names[p.UserID]; !ok {
			if u, err := s.users.GetByID(ctx, p.UserID); err == nil {
				names[p.UserID] = u.Name
			} else {
				names[p.UserID] = ""
			}
		}
		likes, err := s.engagements.CountLikes(ctx, p.PostID)
		if err != nil {
			return nil, err
		}
		comments, err := s.engagements.CountComments(ctx, p.PostID)
		if err != nil {
			return nil, err
		}
		v := &PostView{
			PostID:       p.PostID,
			Content:      p.Content,
			CreatedAt:    p.CreatedAt.Format(time.RFC3339),
			UserID:       p.UserID,
			Username:     names[p.UserID],
			LikeCount:    int(likes),
			CommentCount: int(comments),
			ImageDir:     p.ImageDir,
		}
		for _, h := range tags[p.PostID] {
			v.Hashtags = append(v.Hashtags, HashtagView{HashtagID: h.HashtagID, HashtagName: h.Name})
		}
		views = append(views, v)
	}
	return views, nil
}
