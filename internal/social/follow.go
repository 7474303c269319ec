package social

import "context"

type followPair struct {
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId"`
}

type followStateResponse struct {
	IsFollowing bool `json:"isFollowing"`
}

// ToggleFollow flips the follow relationship and returns the confirmed new
// state. One idempotent endpoint serves both follow and unfollow.
func (a *API) ToggleFollow(ctx context.Context, userID, targetUserID string) (bool, error) {
	body, err := settleEnvelope(a.c.Post(ctx, "/follow", nil, followPair{userID, targetUserID}))
	if err != nil {
		return false, err
	}
	var out followStateResponse
	if err := unmarshal(body, &out); err != nil {
		return false, err
	}
	return out.IsFollowing, nil
}

// FollowState reports whether userID follows targetUserID.
func (a *API) FollowState(ctx context.Context, userID, targetUserID string) (bool, error) {
	body, err := settleEnvelope(a.c.Post(ctx, "/follow/state", nil, followPair{userID, targetUserID}))
	if err != nil {
		return false, err
	}
	var out followStateResponse
	if err := unmarshal(body, &out); err != nil {
		return false, err
	}
	return out.IsFollowing, nil
}

// FollowCounts returns follower and following totals for a user.
func (a *API) FollowCounts(ctx context.Context, userID string) (followers, following int, err error) {
	body, err := settleEnvelope(a.c.Post(ctx, "/follow/counts", nil, map[string]string{"userId": userID}))
	if err != nil {
		return 0, 0, err
	}
	var out struct {
		FollowerCount  int `json:"followerCount"`
		FollowingCount int `json:"followingCount"`
	}
	if err := unmarshal(body, &out); err != nil {
		return 0, 0, err
	}
	return out.FollowerCount, out.FollowingCount, nil
}
