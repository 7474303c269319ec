// Package comments maintains the two-level comment tree for one post:
// top-level comments with their replies, plus an independent busy/error
// state machine per comment so one comment's in-flight delete never blocks
// another's reply box.
//
// Writes are confirmation-first and reload the whole tree afterwards:
// comment ids are server-assigned and immediately needed for reply and
// delete actions on fresh comments, so a local optimistic insert would hand
// the view a comment it cannot act on.
package comments

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/d60-Lab/doremi/internal/lifecycle"
	"github.com/d60-Lab/doremi/internal/social"
)

// Node is one comment. Replies are populated on top-level nodes only; the
// tree never nests deeper than two levels.
type Node struct {
	ID         int64
	ParentID   *int64
	PostID     int64
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  string
	Replies    []Node
}

// EntryState is the per-comment interaction state.
type EntryState struct {
	SubmittingReply bool
	Deleting        bool
	LastError       string
}

// Composer owns the tree for one post and one viewer.
type Composer struct {
	api     *social.API
	actorID string
	postID  int64
	scope   *lifecycle.Scope
	log     *zap.Logger

	mu      sync.Mutex
	nodes   []Node
	loading bool
	loadErr string

	// Top-level comment box.
	submitting bool
	submitErr  string

	entries map[int64]*EntryState
}

// NewComposer builds a composer for postID viewed by actorID ("" for
// logged-out viewers, who can read but not write).
func NewComposer(api *social.API, actorID string, postID int64, scope *lifecycle.Scope, log *zap.Logger) *Composer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{
		api:     api,
		actorID: actorID,
		postID:  postID,
		scope:   scope,
		log:     log,
		entries: make(map[int64]*EntryState),
	}
}

func fromWire(c social.Comment) Node {
	n := Node{
		ID:         c.CommentID,
		ParentID:   c.ParentCommentID,
		PostID:     c.PostID,
		AuthorID:   c.UserID,
		AuthorName: c.Username,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
	// Absent replies mean none; replies on a reply are dropped rather than
	// displayed beyond depth two.
	if c.ParentCommentID == nil {
		for _, r := range c.Replies {
			child := fromWire(r)
			child.Replies = nil
			n.Replies = append(n.Replies, child)
		}
	}
	return n
}

// Tree returns a snapshot of the current tree.
func (cp *Composer) Tree() []Node {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	out := make([]Node, len(cp.nodes))
	copy(out, cp.nodes)
	return out
}

// Loading reports whether a tree load is in flight.
func (cp *Composer) Loading() bool {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.loading
}

// LoadError is the last tree-load failure message.
func (cp *Composer) LoadError() string {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.loadErr
}

// Submitting reports whether a top-level comment submission is in flight.
func (cp *Composer) Submitting() bool {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.submitting
}

// SubmitError is the last top-level submission failure message.
func (cp *Composer) SubmitError() string {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.submitErr
}

// Entry returns the per-comment interaction state.
func (cp *Composer) Entry(commentID int64) EntryState {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return *cp.entryLocked(commentID)
}

func (cp *Composer) entryLocked(commentID int64) *EntryState {
	e, ok := cp.entries[commentID]
	if !ok {
		e = &EntryState{}
		cp.entries[commentID] = e
	}
	return e
}

func (cp *Composer) topLevelExistsLocked(commentID int64) bool {
	for _, n := range cp.nodes {
		if n.ID == commentID {
			return true
		}
	}
	return false
}

// Load replaces the entire tree from the server. Reloads are deliberately
// not serialized against each other; the last applied response wins.
func (cp *Composer) Load(ctx context.Context) {
	cp.mu.Lock()
	cp.loading = true
	cp.loadErr = ""
	cp.mu.Unlock()

	var fetched []social.Comment
	cp.scope.Run(
		func() error {
			cs, err := cp.api.Comments(ctx, cp.postID)
			fetched = cs
			return err
		},
		func() {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			cp.applyLocked(fetched)
		},
		func(err error) {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			cp.loadErr = err.Error()
		},
		func() {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			cp.loading = false
		},
	)
}

func (cp *Composer) applyLocked(cs []social.Comment) {
	nodes := make([]Node, 0, len(cs))
	for _, c := range cs {
		if c.ParentCommentID != nil {
			continue // a stray flat reply never becomes a root
		}
		nodes = append(nodes, fromWire(c))
	}
	cp.nodes = nodes
}

// AddTopLevel submits a new comment and, once confirmed, reloads the tree so
// the server-assigned id and author display name land correctly.
func (cp *Composer) AddTopLevel(ctx context.Context, text string) {
	if cp.actorID == "" {
		return
	}
	text = strings.TrimSpace(text)

	cp.mu.Lock()
	if cp.submitting {
		cp.mu.Unlock()
		return
	}
	if text == "" {
		cp.submitErr = "댓글 내용을 입력해주세요."
		cp.mu.Unlock()
		return
	}
	cp.submitting = true
	cp.submitErr = ""
	cp.mu.Unlock()

	var fetched []social.Comment
	cp.scope.Run(
		func() error {
			err := cp.api.CreateComment(ctx, social.CreateCommentRequest{
				PostID: cp.postID,
				UserID: cp.actorID,
				Text:   text,
			})
			if err != nil {
				return err
			}
			fetched, err = cp.api.Comments(ctx, cp.postID)
			return err
		},
		func() {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			cp.applyLocked(fetched)
		},
		func(err error) {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			cp.submitErr = err.Error()
		},
		func() {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			cp.submitting = false
		},
	)
}

// AddReply submits a reply to a top-level comment, then reloads. Replying to
// a reply is rejected client-side: the tree caps at depth two.
func (cp *Composer) AddReply(ctx context.Context, parentID int64, text string) {
	if cp.actorID == "" {
		return
	}
	text = strings.TrimSpace(text)

	cp.mu.Lock()
	entry := cp.entryLocked(parentID)
	if entry.SubmittingReply {
		cp.mu.Unlock()
		return
	}
	if text == "" {
		entry.LastError = "댓글 내용을 입력해주세요."
		cp.mu.Unlock()
		return
	}
	if !cp.topLevelExistsLocked(parentID) {
		entry.LastError = "답글은 댓글에만 작성할 수 있습니다."
		cp.mu.Unlock()
		return
	}
	entry.SubmittingReply = true
	entry.LastError = ""
	cp.mu.Unlock()

	var fetched []social.Comment
	cp.scope.Run(
		func() error {
			err := cp.api.CreateReply(ctx, social.CreateReplyRequest{
				ParentCommentID: parentID,
				UserID:          cp.actorID,
				Text:            text,
			})
			if err != nil {
				return err
			}
			fetched, err = cp.api.Comments(ctx, cp.postID)
			return err
		},
		func() {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			cp.applyLocked(fetched)
		},
		func(err error) {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			entry.LastError = err.Error()
		},
		func() {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			entry.SubmittingReply = false
		},
	)
}

// Delete removes a comment after the view layer has confirmed the action
// with the user, then reloads. Deleting a top-level comment removes its
// replies through the server-side cascade.
func (cp *Composer) Delete(ctx context.Context, commentID int64) {
	if cp.actorID == "" {
		return
	}

	cp.mu.Lock()
	entry := cp.entryLocked(commentID)
	if entry.Deleting {
		cp.mu.Unlock()
		return
	}
	entry.Deleting = true
	entry.LastError = ""
	cp.mu.Unlock()

	var fetched []social.Comment
	cp.scope.Run(
		func() error {
			if err := cp.api.DeleteComment(ctx, commentID); err != nil {
				return err
			}
			var err error
			fetched, err = cp.api.Comments(ctx, cp.postID)
			return err
		},
		func() {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			cp.applyLocked(fetched)
			delete(cp.entries, commentID)
		},
		func(err error) {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			entry.LastError = err.Error()
		},
		func() {
			cp.mu.Lock()
			defer cp.mu.Unlock()
			entry.Deleting = false
		},
	)
}

// Find locates a comment anywhere in the two-level tree.
func (cp *Composer) Find(commentID int64) (Node, bool) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	for _, n := range cp.nodes {
		if n.ID == commentID {
			return n, true
		}
		for _, r := range n.Replies {
			if r.ID == commentID {
				return r, true
			}
		}
	}
	return Node{}, false
}

// Wait blocks until in-flight operations settle. Test and shutdown helper.
func (cp *Composer) Wait() { cp.scope.Wait() }
