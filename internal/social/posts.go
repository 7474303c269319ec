package social

import (
	"context"
	"fmt"
	"net/url"
)

type postResponse struct {
	Post Post `json:"post"`
}

type postsResponse struct {
	Posts []Post `json:"posts"`
}

// GetPost fetches one post's full record.
func (a *API) GetPost(ctx context.Context, postID int64) (Post, error) {
	body, err := settleEnvelope(a.c.Get(ctx, fmt.Sprintf("/posts/%d", postID), nil))
	if err != nil {
		return Post{}, err
	}
	var out postResponse
	if err := unmarshal(body, &out); err != nil {
		return Post{}, err
	}
	return out.Post, nil
}

// PostsByUser lists a user's own posts.
func (a *API) PostsByUser(ctx context.Context, userID string) ([]Post, error) {
	return a.postList(ctx, "/posts/user/"+url.PathEscape(userID))
}

// RecommendedPosts is the viewer's recommended feed.
func (a *API) RecommendedPosts(ctx context.Context, userID string) ([]Post, error) {
	return a.postList(ctx, "/posts/recommended/"+url.PathEscape(userID))
}

// FollowingPosts is the viewer's following feed.
func (a *API) FollowingPosts(ctx context.Context, userID string) ([]Post, error) {
	return a.postList(ctx, "/posts/following/"+url.PathEscape(userID))
}

func (a *API) postList(ctx context.Context, path string) ([]Post, error) {
	body, err := settleEnvelope(a.c.Get(ctx, path, nil))
	if err != nil {
		return nil, err
	}
	var out postsResponse
	if err := unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// CreatePostRequest is the new-post payload. Hashtags is the comma-separated
// form the backend expects ("고양이, 귀여움"). Image upload is done by
// reference; binary upload is the web client's concern.
type CreatePostRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Hashtags string `json:"hashtags"`
	ImageDir string `json:"imageDir,omitempty"`
}

// CreatePost publishes a post and returns its server-assigned id.
func (a *API) CreatePost(ctx context.Context, req CreatePostRequest) (int64, error) {
	if err := a.checkInput(req); err != nil {
		return 0, err
	}
	body, err := settleEnvelope(a.c.Post(ctx, "/posts", nil, req))
	if err != nil {
		return 0, err
	}
	var out struct {
		PostID int64 `json:"POST_ID"`
	}
	if err := unmarshal(body, &out); err != nil {
		return 0, err
	}
	return out.PostID, nil
}

// DeletePost removes the viewer's post.
func (a *API) DeletePost(ctx context.Context, postID int64, userID string) error {
	_, err := settleEnvelope(a.c.Delete(ctx, fmt.Sprintf("/posts/%d", postID), map[string]string{"USER_ID": userID}))
	return err
}
