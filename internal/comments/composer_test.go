package comments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/doremi/internal/client"
	"github.com/d60-Lab/doremi/internal/lifecycle"
	"github.com/d60-Lab/doremi/internal/social"
)

// commentsBackend is a minimal in-memory comments API.
type commentsBackend struct {
	mu     sync.Mutex
	nextID int64
	rows   []wireComment
}

type wireComment struct {
	CommentID       int64  `json:"COMMENT_ID"`
	ParentCommentID *int64 `json:"PARENT_COMMENT_ID"`
	CreatedAt       string `json:"CREATED_AT"`
	PostID          int64  `json:"POST_ID"`
	UserID          string `json:"USER_ID"`
	Text            string `json:"TEXT"`
	Username        string `json:"username,omitempty"`

	Replies []wireComment `json:"replies,omitempty"`
}

func newCommentsBackend() *commentsBackend {
	return &commentsBackend{nextID: 1}
}

func (b *commentsBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/comments/posts/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		var roots []wireComment
		for _, c := range b.rows {
			if c.ParentCommentID != nil {
				continue
			}
			root := c
			for _, r2 := range b.rows {
				if r2.ParentCommentID != nil && *r2.ParentCommentID == c.CommentID {
					root.Replies = append(root.Replies, r2)
				}
			}
			roots = append(roots, root)
		}
		json.NewEncoder(w).Encode(map[string]any{"result": true, "comments": roots})
	})
	mux.HandleFunc("/comments/reply", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ParentCommentID int64  `json:"PARENT_COMMENT_ID"`
			UserID          string `json:"USER_ID"`
			Text            string `json:"TEXT"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		var postID int64
		for _, c := range b.rows {
			if c.CommentID == req.ParentCommentID {
				postID = c.PostID
			}
		}
		pid := req.ParentCommentID
		b.rows = append(b.rows, wireComment{
			CommentID: b.nextID, ParentCommentID: &pid, PostID: postID,
			UserID: req.UserID, Text: req.Text,
		})
		b.nextID++
		json.NewEncoder(w).Encode(map[string]any{"result": true})
	})
	mux.HandleFunc("/comments/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		var id int64
		fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/comments/"), "%d", &id)
		b.mu.Lock()
		defer b.mu.Unlock()
		kept := b.rows[:0]
		for _, c := range b.rows {
			if c.CommentID == id || (c.ParentCommentID != nil && *c.ParentCommentID == id) {
				continue
			}
			kept = append(kept, c)
		}
		b.rows = kept
		json.NewEncoder(w).Encode(map[string]any{"result": true})
	})
	mux.HandleFunc("/comments", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PostID int64  `json:"POST_ID"`
			UserID string `json:"USER_ID"`
			Text   string `json:"TEXT"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.rows = append(b.rows, wireComment{
			CommentID: b.nextID, PostID: req.PostID, UserID: req.UserID,
			Text: req.Text, Username: req.UserID,
		})
		b.nextID++
		json.NewEncoder(w).Encode(map[string]any{"result": true})
	})
	return mux
}

func (b *commentsBackend) seed(postID int64, userID, text string, parent *int64) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.rows = append(b.rows, wireComment{
		CommentID: id, ParentCommentID: parent, PostID: postID, UserID: userID, Text: text,
	})
	return id
}

func newTestComposer(t *testing.T, b *commentsBackend, actorID string) *Composer {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)
	api := social.New(client.New(srv.URL, client.WithHTTPClient(srv.Client())))
	return NewComposer(api, actorID, 1, lifecycle.NewScope(), nil)
}

func TestLoadBuildsTwoLevelTree(t *testing.T) {
	b := newCommentsBackend()
	root := b.seed(1, "alice", "first", nil)
	b.seed(1, "bob", "reply one", &root)
	b.seed(1, "carol", "reply two", &root)

	cp := newTestComposer(t, b, "alice")
	cp.Load(context.Background())
	cp.Wait()

	tree := cp.Tree()
	require.Len(t, tree, 1)
	assert.Equal(t, "first", tree[0].Text)
	require.Len(t, tree[0].Replies, 2)
	assert.Equal(t, "reply one", tree[0].Replies[0].Text)
	assert.Empty(t, cp.LoadError())
}

func TestAddTopLevelReloadsWithServerID(t *testing.T) {
	b := newCommentsBackend()
	cp := newTestComposer(t, b, "alice")

	cp.AddTopLevel(context.Background(), "hello world")
	cp.Wait()

	tree := cp.Tree()
	require.Len(t, tree, 1)
	assert.Equal(t, int64(1), tree[0].ID, "id is server-assigned")
	assert.Equal(t, "alice", tree[0].AuthorID)
	assert.False(t, cp.Submitting())
}

func TestAddTopLevelEmptyTextNeverHitsNetwork(t *testing.T) {
	b := newCommentsBackend()
	cp := newTestComposer(t, b, "alice")

	cp.AddTopLevel(context.Background(), "   ")
	cp.Wait()

	assert.Empty(t, cp.Tree())
	assert.NotEmpty(t, cp.SubmitError())
}

func TestAddReplyOnlyOnTopLevel(t *testing.T) {
	b := newCommentsBackend()
	root := b.seed(1, "alice", "root", nil)
	replyID := b.seed(1, "bob", "reply", &root)

	cp := newTestComposer(t, b, "carol")
	cp.Load(context.Background())
	cp.Wait()

	// Replying to a reply is rejected client-side.
	cp.AddReply(context.Background(), replyID, "nested")
	cp.Wait()
	assert.NotEmpty(t, cp.Entry(replyID).LastError)

	cp.AddReply(context.Background(), root, "ok")
	cp.Wait()
	tree := cp.Tree()
	require.Len(t, tree, 1)
	assert.Len(t, tree[0].Replies, 2)
	assert.Empty(t, cp.Entry(root).LastError)
}

func TestDeleteTopLevelRemovesReplies(t *testing.T) {
	b := newCommentsBackend()
	seven := b.seed(1, "alice", "doomed", nil)
	b.seed(1, "bob", "r1", &seven)
	b.seed(1, "carol", "r2", &seven)
	other := b.seed(1, "dave", "survivor", nil)

	cp := newTestComposer(t, b, "alice")
	cp.Load(context.Background())
	cp.Wait()
	require.Len(t, cp.Tree(), 2)

	cp.Delete(context.Background(), seven)
	cp.Wait()

	tree := cp.Tree()
	require.Len(t, tree, 1)
	assert.Equal(t, other, tree[0].ID)
	_, found := cp.Find(seven)
	assert.False(t, found)
}

func TestPerCommentStateIsIndependent(t *testing.T) {
	b := newCommentsBackend()
	c1 := b.seed(1, "alice", "one", nil)
	c2 := b.seed(1, "bob", "two", nil)

	cp := newTestComposer(t, b, "carol")
	cp.Load(context.Background())
	cp.Wait()

	// A failed action on one comment leaves the other's state clean.
	cp.AddReply(context.Background(), c1, "")
	assert.NotEmpty(t, cp.Entry(c1).LastError)
	assert.Empty(t, cp.Entry(c2).LastError)
	assert.False(t, cp.Entry(c2).SubmittingReply)
}

func TestLoggedOutViewerCannotWrite(t *testing.T) {
	b := newCommentsBackend()
	cp := newTestComposer(t, b, "")

	cp.AddTopLevel(context.Background(), "hi")
	cp.Wait()
	assert.Empty(t, cp.Tree())
}
