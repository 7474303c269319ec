package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/doremi/internal/client"
	"github.com/d60-Lab/doremi/internal/lifecycle"
	"github.com/d60-Lab/doremi/internal/social"
	"github.com/d60-Lab/doremi/internal/toggle"
)

const (
	waitFor = 2 * time.Second
	tick    = 2 * time.Millisecond
)

// feedBackend serves the post-list and hashtag endpoints from fixtures.
// hold maps a hashtag name to a channel that stalls its search response,
// so tests can keep a fan-out in flight while typing continues.
type feedBackend struct {
	mu          sync.Mutex
	recommended []social.Post
	following   []social.Post
	hashtags    map[string][]social.Post // search results per hashtag
	candidates  []social.AutocompleteItem
	posts       map[int64]social.Post // full records for backfill
	hold        map[string]chan struct{}
	searchHits  map[string]int
}

func newFeedBackend() *feedBackend {
	return &feedBackend{
		hashtags:   make(map[string][]social.Post),
		posts:      make(map[int64]social.Post),
		hold:       make(map[string]chan struct{}),
		searchHits: make(map[string]int),
	}
}

func (b *feedBackend) handler() http.Handler {
	mux := http.NewServeMux()
	writePosts := func(w http.ResponseWriter, posts []social.Post) {
		json.NewEncoder(w).Encode(map[string]any{"result": true, "posts": posts})
	}
	mux.HandleFunc("/posts/recommended/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		posts := b.recommended
		b.mu.Unlock()
		writePosts(w, posts)
	})
	mux.HandleFunc("/posts/following/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		posts := b.following
		b.mu.Unlock()
		writePosts(w, posts)
	})
	mux.HandleFunc("/posts/", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/posts/"), 10, 64)
		b.mu.Lock()
		p, ok := b.posts[id]
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"result": false, "message": "존재하지 않거나 삭제된 게시물입니다."})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"result": true, "post": p})
	})
	mux.HandleFunc("/hashtags/auto", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		cands := b.candidates
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"result": true, "hashtags": cands})
	})
	mux.HandleFunc("/hashtags/search/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/hashtags/search/")
		b.mu.Lock()
		gate := b.hold[name]
		posts := b.hashtags[name]
		b.searchHits[name]++
		b.mu.Unlock()
		if gate != nil {
			<-gate
		}
		writePosts(w, posts)
	})
	mux.HandleFunc("/hashtags/post/", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/hashtags/post/"), 10, 64)
		b.mu.Lock()
		tags := b.posts[id].Hashtags
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"result": true, "hashtags": tags})
	})
	return mux
}

func (b *feedBackend) hits(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.searchHits[name]
}

func newTestComposer(t *testing.T, b *feedBackend, opts Options) *Composer {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)
	api := social.New(client.New(srv.URL, client.WithHTTPClient(srv.Client())))
	return NewComposer(api, "viewer", lifecycle.NewScope(), nil, opts)
}

func post(id int64, user string, tags ...string) social.Post {
	p := social.Post{PostID: id, UserID: user, Username: user, Content: "p" + strconv.FormatInt(id, 10), ImageDir: "img"}
	for i, tg := range tags {
		p.Hashtags = append(p.Hashtags, social.PostHashtag{HashtagID: int64(i + 1), HashtagName: tg})
	}
	return p
}

func TestLoadRecommendedAndFollowing(t *testing.T) {
	b := newFeedBackend()
	b.recommended = []social.Post{post(1, "alice", "cats"), post(2, "bob")}
	b.following = []social.Post{post(3, "carol")}

	c := newTestComposer(t, b, Options{})
	c.LoadRecommended(context.Background())
	c.LoadFollowing(context.Background())
	c.Wait()

	require.Len(t, c.Recommended(), 2)
	assert.Equal(t, []string{"cats"}, c.Recommended()[0].Hashtags)
	require.Len(t, c.Following(), 1)
	assert.Empty(t, c.LastError())
}

func TestSearchFansOutAndDeduplicates(t *testing.T) {
	b := newFeedBackend()
	b.candidates = []social.AutocompleteItem{
		{HashtagName: "cats", PostCount: 2},
		{HashtagName: "catsofinstagram", PostCount: 1},
	}
	shared := post(1, "alice", "cats", "catsofinstagram")
	b.hashtags["cats"] = []social.Post{shared, post(2, "bob", "cats")}
	b.hashtags["catsofinstagram"] = []social.Post{shared}

	c := newTestComposer(t, b, Options{SearchQuiet: 5 * time.Millisecond})
	c.OnSearchInput("#cat")

	assert.Eventually(t, func() bool { return len(c.SearchResults()) == 2 }, waitFor, tick,
		"union of both hashtags, shared post counted once")
	assert.True(t, c.SearchMode())
}

func TestSearchCapLimitsFanout(t *testing.T) {
	b := newFeedBackend()
	for _, name := range []string{"a1", "a2", "a3", "a4"} {
		b.candidates = append(b.candidates, social.AutocompleteItem{HashtagName: name})
		b.hashtags[name] = []social.Post{post(int64(len(b.candidates)), "u", name)}
	}

	c := newTestComposer(t, b, Options{SearchQuiet: 5 * time.Millisecond, FanoutCap: 2})
	c.OnSearchInput("a")

	assert.Eventually(t, func() bool { return len(c.SearchResults()) == 2 }, waitFor, tick)
	assert.Zero(t, b.hits("a3"), "candidates beyond the cap are never searched")
	assert.Zero(t, b.hits("a4"))
}

func TestNewerKeystrokeSupersedesInFlightSearch(t *testing.T) {
	b := newFeedBackend()
	b.candidates = []social.AutocompleteItem{{HashtagName: "cats"}, {HashtagName: "dogs"}}
	b.hashtags["cats"] = []social.Post{post(1, "alice", "cats")}
	b.hashtags["dogs"] = []social.Post{post(2, "bob", "dogs")}
	gate := make(chan struct{})
	b.hold["cats"] = gate

	c := newTestComposer(t, b, Options{SearchQuiet: 5 * time.Millisecond, FanoutCap: 1})

	// Autocomplete returns both candidates regardless of the term; the cap
	// of one makes each search hit exactly its first candidate.
	c.OnSearchInput("cats")
	require.Eventually(t, func() bool { return b.hits("cats") == 1 }, waitFor, tick,
		"first search in flight")

	b.mu.Lock()
	b.candidates = []social.AutocompleteItem{{HashtagName: "dogs"}}
	b.mu.Unlock()
	c.OnSearchInput("dogs") // supersedes while the first is stalled

	assert.Eventually(t, func() bool {
		res := c.SearchResults()
		return len(res) == 1 && res[0].PostID == 2
	}, waitFor, tick)

	close(gate) // first search settles late and must be discarded
	c.Wait()
	res := c.SearchResults()
	require.Len(t, res, 1)
	assert.Equal(t, int64(2), res[0].PostID, "stale results never overwrite newer ones")
}

func TestEmptyInputClearsSearchSynchronously(t *testing.T) {
	b := newFeedBackend()
	b.candidates = []social.AutocompleteItem{{HashtagName: "cats"}}
	b.hashtags["cats"] = []social.Post{post(1, "alice", "cats")}

	c := newTestComposer(t, b, Options{SearchQuiet: 5 * time.Millisecond})
	c.OnSearchInput("cats")
	assert.Eventually(t, func() bool { return c.SearchMode() }, waitFor, tick)
	c.Wait()

	c.OnSearchInput("   ")
	assert.False(t, c.SearchMode(), "clearing the box leaves search mode without a round trip")
	assert.Empty(t, c.SearchResults())
}

func TestSearchBackfillsSparseRecords(t *testing.T) {
	b := newFeedBackend()
	b.candidates = []social.AutocompleteItem{{HashtagName: "cats"}}
	// The search endpoint returns a sparse record; the full one lives behind
	// the per-post endpoints.
	b.hashtags["cats"] = []social.Post{{PostID: 9, UserID: "alice", Content: "sparse"}}
	b.posts[9] = post(9, "alice", "cats", "cute")

	c := newTestComposer(t, b, Options{SearchQuiet: 5 * time.Millisecond})
	c.OnSearchInput("cats")

	assert.Eventually(t, func() bool {
		res := c.SearchResults()
		return len(res) == 1 && res[0].ImageRef != ""
	}, waitFor, tick)
	res := c.SearchResults()
	assert.Equal(t, "img", res[0].ImageRef)
	assert.Equal(t, []string{"cats", "cute"}, res[0].Hashtags)
}

func TestApplyToggleReplacesOnlyMatchingEntry(t *testing.T) {
	b := newFeedBackend()
	b.recommended = []social.Post{post(1, "alice"), post(2, "bob")}
	b.recommended[0].LikeCount = 5

	c := newTestComposer(t, b, Options{})
	c.LoadRecommended(context.Background())
	c.Wait()

	c.ApplyToggle(toggle.KindLike, 1, true, 6)

	rec := c.Recommended()
	assert.True(t, rec[0].ViewerHasLiked)
	assert.Equal(t, 6, rec[0].LikeCount)
	assert.False(t, rec[1].ViewerHasLiked, "other entries untouched")

	c.ApplyToggle(toggle.KindBookmark, 2, true, -1)
	rec = c.Recommended()
	assert.True(t, rec[1].ViewerHasBookmarked)
	assert.Zero(t, rec[1].LikeCount, "bookmark toggle leaves the like counter alone")
}

func TestLoadFailureSetsLastError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"result": false, "message": "서버 오류입니다."})
	}))
	t.Cleanup(srv.Close)
	api := social.New(client.New(srv.URL, client.WithHTTPClient(srv.Client())))
	c := NewComposer(api, "viewer", lifecycle.NewScope(), nil, Options{})

	c.LoadRecommended(context.Background())
	c.Wait()

	assert.Equal(t, "서버 오류입니다.", c.LastError())
	assert.Empty(t, c.Recommended())
}
