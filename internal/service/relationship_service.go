package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/doremi/internal/repository"
)

var ErrFollowSelf = errors.New("자기 자신은 팔로우할 수 없습니다.")

// RelationshipService owns the follow graph. Toggle is the only write: one
// idempotent operation that follows when not following and unfollows when
// following, returning the confirmed new state.
type RelationshipService interface {
	Toggle(ctx context.Context, userID, targetID string) (following bool, err error)
	State(ctx context.Context, userID, targetID string) (bool, error)
	Counts(ctx context.Context, userID string) (followers, following int64, err error)
	FollowerIDs(ctx context.Context, userID string, offset, limit int) ([]string, error)
}

type relationshipService struct {
	follows repository.FollowRepository
	cache   *redis.Client // optional follower-count cache; nil falls through to DB
	ttl     time.Duration
}

func NewRelationshipService(follows repository.FollowRepository, cache *redis.Client, ttl time.Duration) RelationshipService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &relationshipService{follows: follows, cache: cache, ttl: ttl}
}

func followerCountKey(userID string) string { return fmt.Sprintf("followers:count:%s", userID) }

func (s *relationshipService) Toggle(ctx context.Context, userID, targetID string) (bool, error) {
	if userID == targetID {
		return false, ErrFollowSelf
	}
	exists, err := s.follows.Exists(ctx, userID, targetID)
	if err != nil {
		return false, err
	}
	if exists {
		err = s.follows.Delete(ctx, userID, targetID)
	} else {
		err = s.follows.Create(ctx, userID, targetID)
	}
	if err != nil {
		return false, err
	}
	if s.cache != nil {
		// Invalidate, don't recompute: the next Counts read repopulates.
		_ = s.cache.Del(ctx, followerCountKey(targetID)).Err()
	}
	return !exists, nil
}

func (s *relationshipService) State(ctx context.Context, userID, targetID string) (bool, error) {
	return s.follows.Exists(ctx, userID, targetID)
}

func (s *relationshipService) Counts(ctx context.Context, userID string) (int64, int64, error) {
	followers, err := s.followerCount(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

func (s *relationshipService) followerCount(ctx context.Context, userID string) (int64, error) {
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, followerCountKey(userID)).Result(); err == nil {
			if n, pErr := strconv.ParseInt(v, 10, 64); pErr == nil {
				return n, nil
			}
		}
	}
	n, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, followerCountKey(userID), strconv.FormatInt(n, 10), s.ttl).Err()
	}
	return n, nil
}

func (s *relationshipService) FollowerIDs(ctx context.Context, userID string, offset, limit int) ([]string, error) {
	return s.follows.ListFollowerIDs(ctx, userID, offset, limit)
}
