package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/doremi/internal/model"
)

var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	CountByID(ctx context.Context, id string) (int64, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	// ListRecommended returns users the viewer does not follow yet,
	// excluding the viewer, newest first.
	ListRecommended(ctx context.Context, viewerID string, limit int) ([]*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) CountByID(ctx context.Context, id string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&cnt).Error
	return cnt, err
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hash).Error
}

func (r *userRepository) ListRecommended(ctx context.Context, viewerID string, limit int) ([]*model.User, error) {
	if limit <= 0 {
		limit = 10
	}
	var res []*model.User
	err := r.db.WithContext(ctx).
		Where("id <> ?", viewerID).
		Where("id NOT IN (?)", r.db.Model(&model.Follow{}).Select("followee_id").Where("follower_id = ?", viewerID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}
