// Package feed assembles the three post collections the home view can show:
// the recommended feed, the following feed, and hashtag search results.
//
// Hashtag search fans out: autocomplete for candidate hashtag names, one
// search per candidate, then per-post detail backfill for records that
// arrive without an image reference or hashtag list. The fan-out is capped
// and rate-limited, and every settle point re-checks both the lifecycle
// scope and the search generation — the user may keep typing mid-flight.
package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/doremi/internal/debounce"
	"github.com/d60-Lab/doremi/internal/lifecycle"
	"github.com/d60-Lab/doremi/internal/social"
	"github.com/d60-Lab/doremi/internal/toggle"
)

// Options tunes the search fan-out.
type Options struct {
	SearchQuiet time.Duration // debounce quiet period for the search box
	FanoutCap   int           // max hashtag candidates per search
	FanoutRate  float64       // per-hashtag searches per second
}

func (o *Options) defaults() {
	if o.SearchQuiet <= 0 {
		o.SearchQuiet = 300 * time.Millisecond
	}
	if o.FanoutCap <= 0 {
		o.FanoutCap = 8
	}
	if o.FanoutRate <= 0 {
		o.FanoutRate = 20
	}
}

// Composer owns the feed collections for one viewer.
type Composer struct {
	api      *social.API
	viewerID string
	scope    *lifecycle.Scope
	log      *zap.Logger
	limiter  *rate.Limiter
	cap      int

	trigger *debounce.Trigger

	mu          sync.Mutex
	recommended []Entry
	following   []Entry
	search      []Entry
	searchMode  bool
	loading     bool
	lastError   string
}

// NewComposer builds a composer. opts may be zero-valued.
func NewComposer(api *social.API, viewerID string, scope *lifecycle.Scope, log *zap.Logger, opts Options) *Composer {
	opts.defaults()
	if log == nil {
		log = zap.NewNop()
	}
	c := &Composer{
		api:      api,
		viewerID: viewerID,
		scope:    scope,
		log:      log,
		limiter:  rate.NewLimiter(rate.Limit(opts.FanoutRate), 1),
		cap:      opts.FanoutCap,
	}
	c.trigger = debounce.New(opts.SearchQuiet, c.searchFire, c.clearSearch)
	return c
}

// Recommended returns the recommended collection.
func (c *Composer) Recommended() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recommended
}

// Following returns the following collection.
func (c *Composer) Following() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.following
}

// SearchResults returns the hashtag search collection.
func (c *Composer) SearchResults() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// SearchMode reports whether a non-empty search currently overrides the
// recommended/following split.
func (c *Composer) SearchMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchMode
}

// LastError is the most recent load or search failure message.
func (c *Composer) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// LoadRecommended replaces the recommended collection from the server.
func (c *Composer) LoadRecommended(ctx context.Context) {
	c.load(ctx, c.api.RecommendedPosts, func(entries []Entry) {
		c.recommended = entries
	})
}

// LoadFollowing replaces the following collection from the server.
func (c *Composer) LoadFollowing(ctx context.Context) {
	c.load(ctx, c.api.FollowingPosts, func(entries []Entry) {
		c.following = entries
	})
}

func (c *Composer) load(ctx context.Context, fetch func(context.Context, string) ([]social.Post, error), apply func([]Entry)) {
	c.mu.Lock()
	c.loading = true
	c.lastError = ""
	c.mu.Unlock()

	var entries []Entry
	c.scope.Run(
		func() error {
			posts, err := fetch(ctx, c.viewerID)
			if err != nil {
				return err
			}
			entries = make([]Entry, 0, len(posts))
			for _, p := range posts {
				entries = append(entries, FromPost(p))
			}
			return nil
		},
		func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			apply(entries)
		},
		func(err error) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.lastError = err.Error()
		},
		func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.loading = false
		},
	)
}

// OnSearchInput feeds the search box stream. Typing schedules a debounced
// fan-out; clearing the box leaves search mode synchronously.
func (c *Composer) OnSearchInput(text string) {
	if normalizeQuery(text) == "" {
		c.trigger.OnInput("")
		return
	}
	c.trigger.OnInput(text)
}

// CancelSearch drops any pending search; in-flight results die on the
// generation check.
func (c *Composer) CancelSearch() {
	c.trigger.Cancel()
}

func (c *Composer) clearSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = nil
	c.searchMode = false
}

// searchFire runs after the quiet period with the settled query text.
func (c *Composer) searchFire(text string, gen uint64) {
	c.mu.Lock()
	c.searchMode = true
	c.mu.Unlock()

	var entries []Entry
	c.scope.Run(
		func() error {
			got, err := c.fanout(context.Background(), text, gen)
			entries = got
			return err
		},
		func() {
			if !c.trigger.Current(gen) {
				return // a later keystroke superseded this search
			}
			c.mu.Lock()
			defer c.mu.Unlock()
			c.search = entries
		},
		func(err error) {
			if !c.trigger.Current(gen) {
				return
			}
			c.mu.Lock()
			defer c.mu.Unlock()
			c.lastError = err.Error()
		},
		nil,
	)
}

// errStale aborts a fan-out that has been superseded; it is swallowed, not
// surfaced.
type staleError struct{}

func (staleError) Error() string { return "stale search generation" }

func (c *Composer) fanout(ctx context.Context, text string, gen uint64) ([]Entry, error) {
	term := normalizeQuery(text)
	if term == "" {
		return nil, nil
	}

	candidates, err := c.api.Autocomplete(ctx, term, c.cap)
	if err != nil {
		return nil, err
	}
	if len(candidates) > c.cap {
		candidates = candidates[:c.cap]
	}

	seen := make(map[int64]bool)
	var posts []social.Post
	for _, cand := range candidates {
		if !c.trigger.Current(gen) || !c.scope.Active() {
			return nil, staleError{}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		found, err := c.api.SearchByHashtag(ctx, cand.HashtagName)
		if err != nil {
			// One bad hashtag must not sink the whole search.
			c.log.Warn("hashtag search failed", zap.String("hashtag", cand.HashtagName), zap.Error(err))
			continue
		}
		for _, p := range found {
			if seen[p.PostID] {
				continue
			}
			seen[p.PostID] = true
			posts = append(posts, p)
		}
	}

	entries := make([]Entry, 0, len(posts))
	for _, p := range posts {
		if p.ImageDir == "" || len(p.Hashtags) == 0 {
			if !c.trigger.Current(gen) || !c.scope.Active() {
				return nil, staleError{}
			}
			p = c.backfill(ctx, p)
		}
		entries = append(entries, FromPost(p))
	}
	return entries, nil
}

// backfill completes a sparse search hit from the per-post endpoints.
// Failures keep the sparse record; search stays best-effort.
func (c *Composer) backfill(ctx context.Context, p social.Post) social.Post {
	if p.ImageDir == "" {
		if full, err := c.api.GetPost(ctx, p.PostID); err == nil {
			if p.ImageDir == "" {
				p.ImageDir = full.ImageDir
			}
			if p.Username == "" {
				p.Username = full.Username
			}
			if len(p.Hashtags) == 0 {
				p.Hashtags = full.Hashtags
			}
		}
	}
	if len(p.Hashtags) == 0 {
		if tags, err := c.api.PostHashtags(ctx, p.PostID); err == nil {
			p.Hashtags = tags
		}
	}
	return p
}

// ApplyToggle folds a confirmed like/bookmark transition into whichever
// collections contain the post. Only the matching entry is replaced.
func (c *Composer) ApplyToggle(kind toggle.Kind, postID int64, active bool, counter int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, coll := range [][]Entry{c.recommended, c.following, c.search} {
		for i := range coll {
			if coll[i].PostID != postID {
				continue
			}
			e := coll[i]
			switch kind {
			case toggle.KindLike:
				e.ViewerHasLiked = active
				if counter >= 0 {
					e.LikeCount = counter
				}
			case toggle.KindBookmark:
				e.ViewerHasBookmarked = active
			}
			coll[i] = e
		}
	}
}

// Wait blocks until in-flight loads settle. Test and shutdown helper.
func (c *Composer) Wait() { c.scope.Wait() }
