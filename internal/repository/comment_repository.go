package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/doremi/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// Delete removes the comment and, for a top-level comment, its replies.
	Delete(ctx context.Context, commentID int64) error
	ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Where("comment_id = ?", commentID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_comment_id = ?", commentID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("comment_id = ?", commentID).Delete(&model.Comment{}).Error
	})
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, comment_id ASC").
		Find(&res).Error
	return res, err
}
