package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/doremi/internal/repository"
)

// FanoutWorker drains the outbox: each published post is pushed into the
// inbox of every follower of its author, in pages, so the following feed is
// a straight indexed read.
type FanoutWorker struct {
	timeline     repository.TimelineRepository
	follows      repository.FollowRepository
	log          *zap.Logger
	pageSize     int
	claimLimit   int
	pollInterval time.Duration
}

func NewFanoutWorker(timeline repository.TimelineRepository, follows repository.FollowRepository, log *zap.Logger) *FanoutWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &FanoutWorker{
		timeline:     timeline,
		follows:      follows,
		log:          log,
		pageSize:     500,
		claimLimit:   128,
		pollInterval: 50 * time.Millisecond,
	}
}

// Start launches the polling loop and returns a stop function.
func (w *FanoutWorker) Start() func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := w.ProcessOnce(context.Background()); err != nil {
					w.log.Warn("fanout pass failed", zap.Error(err))
				}
			}
		}
	}()
	return func() { close(stop); <-done }
}

// ProcessOnce claims one batch of pending events and fans them out. Exposed
// so tests and the publish path can drain synchronously.
func (w *FanoutWorker) ProcessOnce(ctx context.Context) error {
	batch, err := w.timeline.ClaimOutbox(ctx, w.claimLimit)
	if err != nil {
		return err
	}
	for _, ev := range batch {
		var fanned int64
		offset := 0
		for {
			followers, err := w.follows.ListFollowerIDs(ctx, ev.AuthorID, offset, w.pageSize)
			if err != nil {
				w.log.Warn("follower page failed", zap.String("author", ev.AuthorID), zap.Error(err))
				break
			}
			if len(followers) == 0 {
				break
			}
			n, err := w.timeline.AppendInbox(ctx, followers, ev.PostID)
			if err != nil {
				w.log.Warn("inbox append failed", zap.Int64("post", ev.PostID), zap.Error(err))
			}
			fanned += n
			if len(followers) < w.pageSize {
				break
			}
			offset += w.pageSize
		}
		if err := w.timeline.FinishOutbox(ctx, ev.ID, fanned); err != nil {
			w.log.Warn("outbox finish failed", zap.String("id", ev.ID), zap.Error(err))
		}
	}
	return nil
}
