package social

import (
	"context"
	"fmt"
)

// Comments lists a post's comment tree. Top-level comments may arrive with
// replies populated; absent replies mean none.
func (a *API) Comments(ctx context.Context, postID int64) ([]Comment, error) {
	body, err := settleEnvelope(a.c.Get(ctx, fmt.Sprintf("/comments/posts/%d", postID), nil))
	if err != nil {
		return nil, err
	}
	var out struct {
		Comments []Comment `json:"comments"`
	}
	if err := unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

// CreateCommentRequest is a new top-level comment.
type CreateCommentRequest struct {
	PostID int64  `json:"POST_ID" validate:"required"`
	UserID string `json:"USER_ID" validate:"required"`
	Text   string `json:"TEXT" validate:"required,min=1"`
}

// CreateComment posts a top-level comment. The created id is not returned by
// the backend; callers reload the tree to pick it up.
func (a *API) CreateComment(ctx context.Context, req CreateCommentRequest) error {
	if err := a.checkInput(req); err != nil {
		return err
	}
	_, err := settleEnvelope(a.c.Post(ctx, "/comments", nil, req))
	return err
}

// CreateReplyRequest is a reply to a top-level comment.
type CreateReplyRequest struct {
	ParentCommentID int64  `json:"PARENT_COMMENT_ID" validate:"required"`
	UserID          string `json:"USER_ID" validate:"required"`
	Text            string `json:"TEXT" validate:"required,min=1"`
}

// CreateReply posts a reply.
func (a *API) CreateReply(ctx context.Context, req CreateReplyRequest) error {
	if err := a.checkInput(req); err != nil {
		return err
	}
	_, err := settleEnvelope(a.c.Post(ctx, "/comments/reply", nil, req))
	return err
}

// DeleteComment removes a comment. Deleting a top-level comment cascades to
// its replies server-side.
func (a *API) DeleteComment(ctx context.Context, commentID int64) error {
	_, err := settleEnvelope(a.c.Delete(ctx, fmt.Sprintf("/comments/%d", commentID), nil))
	return err
}
