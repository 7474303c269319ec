package social

import "context"

// The bookmark routes are the ones with the nested result envelope
// ({"result": {"success": bool, "message": "..."}}) — settleEnvelope's
// normalizer handles both generations, so these bindings stay flat.

type bookmarkKey struct {
	PostID int64  `json:"postId"`
	UserID string `json:"userId"`
}

// CheckBookmark reports whether userID has bookmarked postID.
func (a *API) CheckBookmark(ctx context.Context, postID int64, userID string) (bool, error) {
	body, err := settleEnvelope(a.c.Post(ctx, "/bookmarks/check", nil, bookmarkKey{postID, userID}))
	if err != nil {
		return false, err
	}
	var out struct {
		IsBookmarked bool `json:"isBookmarked"`
	}
	if err := unmarshal(body, &out); err != nil {
		return false, err
	}
	return out.IsBookmarked, nil
}

// AddBookmark saves a post.
func (a *API) AddBookmark(ctx context.Context, postID int64, userID string) error {
	_, err := settleEnvelope(a.c.Post(ctx, "/bookmarks/add", nil, bookmarkKey{postID, userID}))
	return err
}

// DeleteBookmark removes a saved post.
func (a *API) DeleteBookmark(ctx context.Context, postID int64, userID string) error {
	_, err := settleEnvelope(a.c.Post(ctx, "/bookmarks/delete", nil, bookmarkKey{postID, userID}))
	return err
}

// Bookmarks lists the viewer's saved posts.
func (a *API) Bookmarks(ctx context.Context, userID string) ([]Post, error) {
	body, err := settleEnvelope(a.c.Post(ctx, "/bookmarks/list", nil, map[string]string{"userId": userID}))
	if err != nil {
		return nil, err
	}
	var out postsResponse
	if err := unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}
