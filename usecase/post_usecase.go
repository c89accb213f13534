package usecase

import (
	"context"
	"errors"
	"time"

	"page-scheduler/domain/dto"
	"page-scheduler/domain/model"
	"page-scheduler/domain/repository"
	"page-scheduler/infrastructure/logger"
)

var (
	ErrScheduleInPast    = errors.New("scheduled time must be in the future")
	ErrUnknownRepeatType = errors.New("unknown repeat type")
)

// Retention windows for the daily cleanup sweep.
const (
	auditRetention   = 30 * 24 * time.Hour
	historyRetention = 90 * 24 * time.Hour
)

type IPostUsecase interface {
	Schedule(ctx context.Context, userID string, req dto.SchedulePostRequest) (*model.ScheduledPost, error)
	List(ctx context.Context, userID string) ([]*model.ScheduledPost, error)
	ListPending(ctx context.Context, userID string) ([]*model.ScheduledPost, error)
	Cancel(ctx context.Context, id int64, userID string) (bool, error)
	Delete(ctx context.Context, id int64, userID string) error
	History(ctx context.Context, userID, status string, limit int) ([]*model.PostHistory, error)
	Stats(ctx context.Context, userID string) (*model.PostStats, error)
	CleanupOldRecords(ctx context.Context) error
}

type postUsecase struct {
	postRepo  repository.IScheduledPost
	histRepo  repository.IPostHistory
	auditRepo repository.ITokenAudit
	now       func() time.Time
}

func NewPostUsecase(postRepo repository.IScheduledPost, histRepo repository.IPostHistory, auditRepo repository.ITokenAudit, now func() time.Time) IPostUsecase {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &postUsecase{postRepo: postRepo, histRepo: histRepo, auditRepo: auditRepo, now: now}
}

func (u *postUsecase) Schedule(ctx context.Context, userID string, req dto.SchedulePostRequest) (*model.ScheduledPost, error) {
	if !req.ScheduledAt.After(u.now()) {
		return nil, ErrScheduleInPast
	}
	repeat := req.RepeatType
	if repeat == "" {
		repeat = model.RepeatNone
	}
	switch repeat {
	case model.RepeatNone, model.RepeatDaily, model.RepeatWeekly, model.RepeatMonthly:
	default:
		return nil, ErrUnknownRepeatType
	}
	return u.postRepo.Create(ctx, &model.ScheduledPost{
		UserID:      userID,
		PageID:      req.PageID,
		PageName:    req.PageName,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		LinkURL:     req.LinkURL,
		PostType:    req.PostType,
		ScheduledAt: req.ScheduledAt.UTC(),
		RepeatType:  repeat,
	})
}

func (u *postUsecase) List(ctx context.Context, userID string) ([]*model.ScheduledPost, error) {
	return u.postRepo.FindByUser(ctx, userID)
}

func (u *postUsecase) ListPending(ctx context.Context, userID string) ([]*model.ScheduledPost, error) {
	return u.postRepo.FindPendingByUser(ctx, userID)
}

func (u *postUsecase) Cancel(ctx context.Context, id int64, userID string) (bool, error) {
	return u.postRepo.Cancel(ctx, id, userID)
}

func (u *postUsecase) Delete(ctx context.Context, id int64, userID string) error {
	return u.postRepo.Delete(ctx, id, userID)
}

func (u *postUsecase) History(ctx context.Context, userID, status string, limit int) ([]*model.PostHistory, error) {
	return u.histRepo.FindByUser(ctx, userID, status, limit)
}

func (u *postUsecase) Stats(ctx context.Context, userID string) (*model.PostStats, error) {
	return u.histRepo.Stats(ctx, userID)
}

// CleanupOldRecords trims the append-only tables so they stay bounded:
// audit rows older than 30 days, history rows older than 90 days.
func (u *postUsecase) CleanupOldRecords(ctx context.Context) error {
	now := u.now()
	audits, err := u.auditRepo.DeleteOlderThan(ctx, now.Add(-auditRetention))
	if err != nil {
		return err
	}
	hist, err := u.histRepo.DeleteOlderThan(ctx, now.Add(-historyRetention))
	if err != nil {
		return err
	}
	if audits > 0 || hist > 0 {
		logger.GetLogger().WithField("audit_rows", audits).WithField("history_rows", hist).Info("Cleanup removed old records")
	}
	return nil
}
