package repository

import (
	"context"
	"time"

	"page-scheduler/domain/model"
)

// IScheduledPost persists scheduled posts. Status mutations happen only
// through the dispatcher-facing methods below; retry_count never decreases.
type IScheduledPost interface {
	Create(ctx context.Context, post *model.ScheduledPost) (*model.ScheduledPost, error)
	FindDue(ctx context.Context, now time.Time) ([]*model.ScheduledPost, error)
	FindByUser(ctx context.Context, userID string) ([]*model.ScheduledPost, error)
	FindPendingByUser(ctx context.Context, userID string) ([]*model.ScheduledPost, error)
	// MarkPosted sets status=posted and stores the Facebook post id, clearing
	// any previous error.
	MarkPosted(ctx context.Context, id int64, fbPostID string) error
	// MarkPostedWithNext additionally inserts the next occurrence of a
	// recurring post in the same transaction, so a crash between the two
	// writes cannot drop the recurrence.
	MarkPostedWithNext(ctx context.Context, id int64, fbPostID string, next *model.ScheduledPost) error
	// RescheduleRetry keeps status=pending, increments retry_count, stores the
	// attempt-prefixed error and pushes scheduled_at to the given time.
	RescheduleRetry(ctx context.Context, id int64, errMsg string, nextAttempt time.Time) error
	// MarkFailed is the terminal failure transition; increments retry_count.
	MarkFailed(ctx context.Context, id int64, errMsg string) error
	Cancel(ctx context.Context, id int64, userID string) (bool, error)
	Delete(ctx context.Context, id int64, userID string) error
}

// IPostHistory appends delivery outcomes. Rows are never mutated.
type IPostHistory interface {
	Append(ctx context.Context, h *model.PostHistory) error
	FindByUser(ctx context.Context, userID, status string, limit int) ([]*model.PostHistory, error)
	Stats(ctx context.Context, userID string) (*model.PostStats, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
