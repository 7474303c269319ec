package toggle

import (
	"context"
	"strconv"

	"github.com/d60-Lab/doremi/internal/social"
)

// The three production ops. Like and follow are single idempotent toggle
// endpoints; bookmark is asymmetric — add or delete is chosen from the
// current confirmed state, and the confirmed new state is its inverse.

func parsePostID(subjectID string) (int64, error) {
	id, err := strconv.ParseInt(subjectID, 10, 64)
	if err != nil {
		return 0, &social.APIError{Message: "invalid post id: " + subjectID}
	}
	return id, nil
}

// LikeOp toggles post likes.
type LikeOp struct {
	API *social.API
}

func (LikeOp) Kind() Kind { return KindLike }

func (o LikeOp) Toggle(ctx context.Context, subjectID, actorID string, _ bool) (bool, error) {
	postID, err := parsePostID(subjectID)
	if err != nil {
		return false, err
	}
	return o.API.ToggleLike(ctx, postID, actorID)
}

func (o LikeOp) Fetch(ctx context.Context, subjectID, actorID string) (bool, int, error) {
	postID, err := parsePostID(subjectID)
	if err != nil {
		return false, -1, err
	}
	active, err := o.API.LikeStatus(ctx, postID, actorID)
	// The like count is seeded from the post record; this endpoint only
	// knows the viewer's own state.
	return active, -1, err
}

// BookmarkOp toggles post bookmarks.
type BookmarkOp struct {
	API *social.API
}

func (BookmarkOp) Kind() Kind { return KindBookmark }

func (o BookmarkOp) Toggle(ctx context.Context, subjectID, actorID string, current bool) (bool, error) {
	postID, err := parsePostID(subjectID)
	if err != nil {
		return false, err
	}
	if current {
		if err := o.API.DeleteBookmark(ctx, postID, actorID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := o.API.AddBookmark(ctx, postID, actorID); err != nil {
		return false, err
	}
	return true, nil
}

func (o BookmarkOp) Fetch(ctx context.Context, subjectID, actorID string) (bool, int, error) {
	postID, err := parsePostID(subjectID)
	if err != nil {
		return false, -1, err
	}
	active, err := o.API.CheckBookmark(ctx, postID, actorID)
	return active, -1, err
}

// FollowOp toggles user follow relationships; the counter tracks the
// target's follower count.
type FollowOp struct {
	API *social.API
}

func (FollowOp) Kind() Kind { return KindFollow }

func (o FollowOp) Toggle(ctx context.Context, subjectID, actorID string, _ bool) (bool, error) {
	return o.API.ToggleFollow(ctx, actorID, subjectID)
}

func (o FollowOp) Fetch(ctx context.Context, subjectID, actorID string) (bool, int, error) {
	active, err := o.API.FollowState(ctx, actorID, subjectID)
	if err != nil {
		return false, -1, err
	}
	followers, _, err := o.API.FollowCounts(ctx, subjectID)
	if err != nil {
		return false, -1, err
	}
	return active, followers, nil
}
