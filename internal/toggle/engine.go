// Package toggle implements the reconciliation engine behind every boolean
// relationship in the app: like, bookmark, follow. One engine instance
// manages the map of independent per-subject state machines for a single
// viewer and relationship kind.
//
// The engine is confirmation-first: state never flips before the server
// confirms. The backend's envelopes are unreliable enough that an optimistic
// flip risks a persistent visual lie when a request silently no-ops.
package toggle

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/d60-Lab/doremi/internal/lifecycle"
)

// Kind names a relationship type.
type Kind string

const (
	KindLike     Kind = "like"
	KindBookmark Kind = "bookmark"
	KindFollow   Kind = "follow"
)

// State is one relationship's view-facing state. Counter moves in lockstep
// with Active transitions and never goes negative.
type State struct {
	SubjectID string
	Active    bool
	Counter   int
	Busy      bool
	LastError string
}

// Op is the network side of one relationship kind.
type Op interface {
	Kind() Kind
	// Toggle flips the relationship given the current confirmed state and
	// returns the server-confirmed new state.
	Toggle(ctx context.Context, subjectID, actorID string, current bool) (bool, error)
	// Fetch reads the initial state. A negative counter means "no counter
	// from this endpoint, keep whatever is seeded".
	Fetch(ctx context.Context, subjectID, actorID string) (active bool, counter int, err error)
}

// Engine serializes toggles per subject with a busy flag and gates every
// asynchronous state write through the view's lifecycle scope.
type Engine struct {
	op      Op
	actorID string // "" means unauthenticated: toggles are no-ops
	scope   *lifecycle.Scope
	log     *zap.Logger

	mu     sync.Mutex
	states map[string]*State
}

// NewEngine builds an engine for one viewer and relationship kind.
func NewEngine(op Op, actorID string, scope *lifecycle.Scope, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		op:      op,
		actorID: actorID,
		scope:   scope,
		log:     log,
		states:  make(map[string]*State),
	}
}

func (e *Engine) stateLocked(subjectID string) *State {
	st, ok := e.states[subjectID]
	if !ok {
		st = &State{SubjectID: subjectID}
		e.states[subjectID] = st
	}
	return st
}

// Seed installs known state (e.g. likeCount and viewerHasLiked from a feed
// record) without a network call. Ignored while a toggle is in flight.
func (e *Engine) Seed(subjectID string, active bool, counter int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.stateLocked(subjectID)
	if st.Busy {
		return
	}
	st.Active = active
	if counter >= 0 {
		st.Counter = counter
	}
}

// Snapshot returns a copy of the subject's current state.
func (e *Engine) Snapshot(subjectID string) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.stateLocked(subjectID)
}

// Toggle flips the relationship for subjectID. Preconditions: an
// authenticated actor and no toggle already in flight for this subject — a
// violating call is ignored, not queued. On confirmation the counter moves
// +1 or −1 (clamped at zero) with the Active transition; on failure state is
// left untouched and LastError carries the normalized message. Busy drops
// last, and only while the scope is still mounted.
func (e *Engine) Toggle(ctx context.Context, subjectID string) {
	if e.actorID == "" {
		return
	}

	e.mu.Lock()
	st := e.stateLocked(subjectID)
	if st.Busy {
		e.mu.Unlock()
		return
	}
	st.Busy = true
	st.LastError = ""
	current := st.Active
	e.mu.Unlock()

	var confirmed bool
	e.scope.Run(
		func() error {
			now, err := e.op.Toggle(ctx, subjectID, e.actorID, current)
			confirmed = now
			return err
		},
		func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.applyConfirmedLocked(st, confirmed)
		},
		func(err error) {
			e.mu.Lock()
			defer e.mu.Unlock()
			st.LastError = err.Error()
		},
		func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			st.Busy = false
		},
	)
}

func (e *Engine) applyConfirmedLocked(st *State, active bool) {
	if st.Active == active {
		return
	}
	st.Active = active
	if active {
		st.Counter++
	} else if st.Counter > 0 {
		st.Counter--
	}
}

// FetchInitial populates Active (and Counter where the endpoint provides
// one) once on mount. Failure is logged and swallowed: the default state
// stays and toggling remains available.
func (e *Engine) FetchInitial(ctx context.Context, subjectID string) {
	if e.actorID == "" {
		return
	}

	var (
		active  bool
		counter int
	)
	e.scope.Run(
		func() error {
			a, c, err := e.op.Fetch(ctx, subjectID, e.actorID)
			active, counter = a, c
			return err
		},
		func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			st := e.stateLocked(subjectID)
			if st.Busy {
				return
			}
			st.Active = active
			if counter >= 0 {
				st.Counter = counter
			}
		},
		func(err error) {
			e.log.Warn("initial state fetch failed",
				zap.String("kind", string(e.op.Kind())),
				zap.String("subject", subjectID),
				zap.Error(err))
		},
		nil,
	)
}

// Wait blocks until in-flight operations settle. Test and shutdown helper.
func (e *Engine) Wait() { e.scope.Wait() }
