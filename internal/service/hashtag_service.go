package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/doremi/internal/repository"
)

// AutocompleteView is one hashtag candidate row.
type AutocompleteView struct {
	HashtagName string `json:"hashtagName"`
	PostCount   int    `json:"postCount"`
}

type HashtagService interface {
	Autocomplete(ctx context.Context, term string, limit int) ([]AutocompleteView, error)
	PostIDsByName(ctx context.Context, name string) ([]int64, error)
	TagsByPost(ctx context.Context, postID int64) ([]HashtagView, error)
}

type hashtagService struct {
	hashtags repository.HashtagRepository
}

func NewHashtagService(hashtags repository.HashtagRepository) HashtagService {
	return &hashtagService{hashtags: hashtags}
}

func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}

func (s *hashtagService) Autocomplete(ctx context.Context, term string, limit int) ([]AutocompleteView, error) {
	term = normalizeTag(term)
	if term == "" {
		return nil, nil
	}
	rows, err := s.hashtags.Autocomplete(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	out := make([]AutocompleteView, 0, len(rows))
	for _, r := range rows {
		out = append(out, AutocompleteView{HashtagName: r.Name, PostCount: r.PostCount})
	}
	return out, nil
}

func (s *hashtagService) PostIDsByName(ctx context.Context, name string) ([]int64, error) {
	return s.hashtags.PostIDsByName(ctx, normalizeTag(name))
}

func (s *hashtagService) TagsByPost(ctx context.Context, postID int64) ([]HashtagView, error) {
	tags, err := s.hashtags.TagsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	out := make([]HashtagView, 0, len(tags))
	for _, h := range tags {
		out = append(out, HashtagView{HashtagID: h.HashtagID, HashtagName: h.Name})
	}
	return out, nil
}
