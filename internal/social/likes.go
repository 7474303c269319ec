package social

import (
	"context"
	"fmt"
	"net/url"
)

type likeResponse struct {
	IsLiked bool `json:"isLiked"`
}

// LikeStatus reports whether userID has liked postID.
func (a *API) LikeStatus(ctx context.Context, postID int64, userID string) (bool, error) {
	q := url.Values{}
	q.Set("User_id", userID)
	body, err := settleEnvelope(a.c.Get(ctx, fmt.Sprintf("/likes/posts/%d", postID), q))
	if err != nil {
		return false, err
	}
	var out likeResponse
	if err := unmarshal(body, &out); err != nil {
		return false, err
	}
	return out.IsLiked, nil
}

// ToggleLike flips the like relationship and returns the server-confirmed
// new state.
func (a *API) ToggleLike(ctx context.Context, postID int64, userID string) (bool, error) {
	q := url.Values{}
	q.Set("User_id", userID)
	payload := map[string]any{"POST_ID": postID, "USER_ID": userID}
	body, err := settleEnvelope(a.c.Post(ctx, fmt.Sprintf("/likes/posts/%d", postID), q, payload))
	if err != nil {
		return false, err
	}
	var out likeResponse
	if err := unmarshal(body, &out); err != nil {
		return false, err
	}
	return out.IsLiked, nil
}

// TotalLikes is the number of likes userID has received across all posts.
func (a *API) TotalLikes(ctx context.Context, userID string) (int, error) {
	body, err := settleEnvelope(a.c.Get(ctx, "/likes/users/"+url.PathEscape(userID)+"/received", nil))
	if err != nil {
		return 0, err
	}
	var out struct {
		TotalLikes int `json:"totalLikes"`
	}
	if err := unmarshal(body, &out); err != nil {
		return 0, err
	}
	return out.TotalLikes, nil
}
