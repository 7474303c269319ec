package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/doremi/internal/model"
)

type EngagementRepository interface {
	LikeExists(ctx context.Context, postID int64, userID string) (bool, error)
	AddLike(ctx context.Context, postID int64, userID string) error
	RemoveLike(ctx context.Context, postID int64, userID string) error
	CountLikes(ctx context.Context, postID int64) (int64, error)
	// CountLikesReceived totals likes across all of userID's posts.
	CountLikesReceived(ctx context.Context, userID string) (int64, error)

	BookmarkExists(ctx context.Context, postID int64, userID string) (bool, error)
	AddBookmark(ctx context.Context, postID int64, userID string) error
	RemoveBookmark(ctx context.Context, postID int64, userID string) error
	ListBookmarkedPostIDs(ctx context.Context, userID string) ([]int64, error)

	CountComments(ctx context.Context, postID int64) (int64, error)
}

type engagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository { return &engagementRepository{db: db} }

func (r *engagementRepository) LikeExists(ctx context.Context, postID int64, userID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).Count(&cnt).Error
	return cnt > 0, err
}

func (r *engagementRepository) AddLike(ctx context.Context, postID int64, userID string) error {
	l := &model.Like{ID: uuid.New().String(), PostID: postID, UserID: userID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l).Error
}

func (r *engagementRepository) RemoveLike(ctx context.Context, postID int64, userID string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.Like{}).Error
}

func (r *engagementRepository) CountLikes(ctx context.Context, postID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}

func (r *engagementRepository) CountLikesReceived(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).
		Where("post_id IN (?)", r.db.Model(&model.Post{}).Select("post_id").Where("user_id = ?", userID)).
		Count(&cnt).Error
	return cnt, err
}

func (r *engagementRepository) BookmarkExists(ctx context.Context, postID int64, userID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Bookmark{}).
		Where("post_id = ? AND user_id = ?", postID, userID).Count(&cnt).Error
	return cnt > 0, err
}

func (r *engagementRepository) AddBookmark(ctx context.Context, postID int64, userID string) error {
	b := &model.Bookmark{ID: uuid.New().String(), PostID: postID, UserID: userID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(b).Error
}

func (r *engagementRepository) RemoveBookmark(ctx context.Context, postID int64, userID string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.Bookmark{}).Error
}

func (r *engagementRepository) ListBookmarkedPostIDs(ctx context.Context, userID string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Bookmark{}).
		Select("post_id").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(&ids).Error
	return ids, err
}

func (r *engagementRepository) CountComments(ctx context.Context, postID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}
