package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/doremi/internal/model"
)

type TimelineRepository interface {
	// AppendInbox fans one post into a batch of follower inboxes.
	AppendInbox(ctx context.Context, userIDs []string, postID int64) (int64, error)
	ListInboxPostIDs(ctx context.Context, userID string, limit int) ([]int64, error)

	EnqueueOutbox(tx *gorm.DB, postID int64, authorID string) error
	ClaimOutbox(ctx context.Context, limit int) ([]*model.Outbox, error)
	FinishOutbox(ctx context.Context, id string, fanned int64) error
}

type timelineRepository struct {
	db *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) TimelineRepository { return &timelineRepository{db: db} }

func (r *timelineRepository) AppendInbox(ctx context.Context, userIDs []string, postID int64) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	now := time.Now()
	score := now.UnixNano()
	records := make([]model.Inbox, 0, len(userIDs))
	for _, uid := range userIDs {
		records = append(records, model.Inbox{
			ID: uuid.New().String(), UserID: uid, PostID: postID, Score: score, CreatedAt: now,
		})
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&records)
	return res.RowsAffected, res.Error
}

func (r *timelineRepository) ListInboxPostIDs(ctx context.Context, userID string, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 50
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Inbox{}).
		Select("post_id").
		Where("user_id = ?", userID).
		Order("score DESC").
		Limit(limit).
		Scan(&ids).Error
	return ids, err
}

// EnqueueOutbox runs inside the publish transaction so a post and its fan-out
// event land atomically.
func (r *timelineRepository) EnqueueOutbox(tx *gorm.DB, postID int64, authorID string) error {
	out := &model.Outbox{
		ID:       uuid.New().String(),
		PostID:   postID,
		AuthorID: authorID,
		Status:   model.OutboxPending,
	}
	return tx.Create(out).Error
}

// ClaimOutbox marks a batch of pending events processing and returns them.
// Plain select-then-update; the stub runs a single claimer.
func (r *timelineRepository) ClaimOutbox(ctx context.Context, limit int) ([]*model.Outbox, error) {
	if limit <= 0 {
		limit = 128
	}
	var batch []*model.Outbox
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("status = ?", model.OutboxPending).
			Order("created_at").
			Limit(limit).
			Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		ids := make([]string, len(batch))
		for i, b := range batch {
			ids[i] = b.ID
		}
		return tx.Model(&model.Outbox{}).Where("id IN ?", ids).
			Update("status", model.OutboxProcessing).Error
	})
	return batch, err
}

func (r *timelineRepository) FinishOutbox(ctx context.Context, id string, fanned int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.Outbox{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxDone, "processed_at": now, "fanout_count": fanned}).Error
}
