package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/doremi/internal/repository"
)

var ErrPostGone = errors.New("존재하지 않거나 삭제된 게시물입니다.")

// EngagementService owns likes and bookmarks. Like is a single idempotent
// toggle; bookmark keeps separate add/delete operations because the original
// routes do.
type EngagementService interface {
	ToggleLike(ctx context.Context, postID int64, userID string) (liked bool, err error)
	LikeStatus(ctx context.Context, postID int64, userID string) (bool, error)
	LikesReceived(ctx context.Context, userID string) (int64, error)

	CheckBookmark(ctx context.Context, postID int64, userID string) (bool, error)
	AddBookmark(ctx context.Context, postID int64, userID string) error
	DeleteBookmark(ctx context.Context, postID int64, userID string) error
	BookmarkedPostIDs(ctx context.Context, userID string) ([]int64, error)
}

type engagementService struct {
	engagements repository.EngagementRepository
	posts       repository.PostRepository
}

func NewEngagementService(engagements repository.EngagementRepository, posts repository.PostRepository) EngagementService {
	return &engagementService{engagements: engagements, posts: posts}
}

func (s *engagementService) requirePost(ctx context.Context, postID int64) error {
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostGone
	}
	return nil
}

func (s *engagementService) ToggleLike(ctx context.Context, postID int64, userID string) (bool, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return false, err
	}
	liked, err := s.engagements.LikeExists(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	if liked {
		err = s.engagements.RemoveLike(ctx, postID, userID)
	} else {
		err = s.engagements.AddLike(ctx, postID, userID)
	}
	if err != nil {
		return false, err
	}
	return !liked, nil
}

func (s *engagementService) LikeStatus(ctx context.Context, postID int64, userID string) (bool, error) {
	return s.engagements.LikeExists(ctx, postID, userID)
}

func (s *engagementService) LikesReceived(ctx context.Context, userID string) (int64, error) {
	return s.engagements.CountLikesReceived(ctx, userID)
}

func (s *engagementService) CheckBookmark(ctx context.Context, postID int64, userID string) (bool, error) {
	return s.engagements.BookmarkExists(ctx, postID, userID)
}

func (s *engagementService) AddBookmark(ctx context.Context, postID int64, userID string) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}
	return s.engagements.AddBookmark(ctx, postID, userID)
}

func (s *engagementService) DeleteBookmark(ctx context.Context, postID int64, userID string) error {
	return s.engagements.RemoveBookmark(ctx, postID, userID)
}

func (s *engagementService) BookmarkedPostIDs(ctx context.Context, userID string) ([]int64, error) {
	return s.engagements.ListBookmarkedPostIDs(ctx, userID)
}
