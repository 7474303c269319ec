package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/doremi/internal/model"
)

// HashtagCandidate is an autocomplete row: a tag name with how many posts
// carry it.
type HashtagCandidate struct {
	HashtagID int64
	Name      string
	PostCount int
}

type HashtagRepository interface {
	// Ensure returns the hashtag row for name, creating it if absent.
	Ensure(ctx context.Context, name string) (*model.Hashtag, error)
	Attach(ctx context.Context, postID, hashtagID int64) error
	Autocomplete(ctx context.Context, prefix string, limit int) ([]HashtagCandidate, error)
	PostIDsByName(ctx context.Context, name string) ([]int64, error)
	TagsByPost(ctx context.Context, postID int64) ([]*model.Hashtag, error)
	TagsByPosts(ctx context.Context, postIDs []int64) (map[int64][]*model.Hashtag, error)
}

type hashtagRepository struct {
	db *gorm.DB
}

func NewHashtagRepository(db *gorm.DB) HashtagRepository { return &hashtagRepository{db: db} }

func (r *hashtagRepository) Ensure(ctx context.Context, name string) (*model.Hashtag, error) {
	var h model.Hashtag
	err := r.db.WithContext(ctx).Where(model.Hashtag{Name: name}).FirstOrCreate(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *hashtagRepository) Attach(ctx context.Context, postID, hashtagID int64) error {
	ph := &model.PostHashtag{PostID: postID, HashtagID: hashtagID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(ph).Error
}

func (r *hashtagRepository) Autocomplete(ctx context.Context, prefix string, limit int) ([]HashtagCandidate, error) {
	if limit <= 0 {
		limit = 10
	}
	var res []HashtagCandidate
	err := r.db.WithContext(ctx).
		Table("hashtags").
		Select("hashtags.hashtag_id, hashtags.name, COUNT(post_hashtags.id) AS post_count").
		Joins("LEFT JOIN post_hashtags ON post_hashtags.hashtag_id = hashtags.hashtag_id").
		Where("hashtags.name LIKE ?", prefix+"%").
		Group("hashtags.hashtag_id").
		Order("post_count DESC").
		Limit(limit).
		Scan(&res).Error
	return res, err
}

func (r *hashtagRepository) PostIDsByName(ctx context.Context, name string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Table("post_hashtags").
		Select("post_hashtags.post_id").
		Joins("JOIN hashtags ON hashtags.hashtag_id = post_hashtags.hashtag_id").
		Where("hashtags.name = ?", name).
		Scan(&ids).Error
	return ids, err
}

func (r *hashtagRepository) TagsByPost(ctx context.Context, postID int64) ([]*model.Hashtag, error) {
	var res []*model.Hashtag
	err := r.db.WithContext(ctx).
		Table("hashtags").
		Joins("JOIN post_hashtags ON post_hashtags.hashtag_id = hashtags.hashtag_id").
		Where("post_hashtags.post_id = ?", postID).
		Find(&res).Error
	return res, err
}

func (r *hashtagRepository) TagsByPosts(ctx context.Context, postIDs []int64) (map[int64][]*model.Hashtag, error) {
	out := make(map[int64][]*model.Hashtag, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		model.Hashtag
		PostID int64
	}
	err := r.db.WithContext(ctx).
		Table("hashtags").
		Select("hashtags.*, post_hashtags.post_id").
		Joins("JOIN post_hashtags ON post_hashtags.hashtag_id = hashtags.hashtag_id").
		Where("post_hashtags.post_id IN ?", postIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		h := rows[i].Hashtag
		out[rows[i].PostID] = append(out[rows[i].PostID], &h)
	}
	return out, nil
}
