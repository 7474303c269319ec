package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/doremi/internal/model"
)

type PostRepository interface {
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	Exists(ctx context.Context, postID int64) (bool, error)
	Delete(ctx context.Context, postID int64, userID string) (bool, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Post, error)
	// ListRecommended returns recent posts not authored by the viewer.
	ListRecommended(ctx context.Context, viewerID string, limit int) ([]*model.Post, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("post_id = ?", postID).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// Delete removes the post and its dependents. Reports whether a row existed
// and belonged to userID.
func (r *postRepository) Delete(ctx context.Context, postID int64, userID string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		for _, m := range []any{&model.Like{}, &model.Bookmark{}, &model.Comment{}, &model.PostHashtag{}, &model.Inbox{}} {
			if err := tx.Where("post_id = ?", postID).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return deleted, err
}

func (r *postRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) ListRecommended(ctx context.Context, viewerID string, limit int) ([]*model.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Where("user_id <> ?", viewerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) ListByIDs(ctx context.Context, ids []int64) ([]*model.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []*model.Post
	err := r.db.WithContext(ctx).Where("post_id IN ?", ids).Find(&res).Error
	return res, err
}
