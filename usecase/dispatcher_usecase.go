package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"page-scheduler/domain/model"
	"page-scheduler/domain/repository"
	"page-scheduler/infrastructure/logger"
	"page-scheduler/infrastructure/pubsub"
	"page-scheduler/infrastructure/utils"
)

// Dispatcher finds due posts and publishes them. One instance is expected per
// deployment; RunCycle is single-flight within the instance.
type Dispatcher struct {
	postRepo    repository.IScheduledPost
	pageRepo    repository.IPageCredential
	histRepo    repository.IPostHistory
	graph       repository.IFacebookGraph
	events      pubsub.IDispatchEvents
	maxRetries  int
	retryDelay  time.Duration
	workerLimit int
	now         func() time.Time

	cycleMu sync.Mutex
}

type DispatcherOptions struct {
	MaxRetries  int           // attempts before a post fails terminally (default 3)
	RetryDelay  time.Duration // reschedule delay after a transient failure (default 5m)
	WorkerLimit int           // concurrent posts per cycle (default 4)
	Now         func() time.Time
}

func NewDispatcher(
	postRepo repository.IScheduledPost,
	pageRepo repository.IPageCredential,
	histRepo repository.IPostHistory,
	graph repository.IFacebookGraph,
	events pubsub.IDispatchEvents,
	opts DispatcherOptions,
) *Dispatcher {
	d := &Dispatcher{
		postRepo:    postRepo,
		pageRepo:    pageRepo,
		histRepo:    histRepo,
		graph:       graph,
		events:      events,
		maxRetries:  opts.MaxRetries,
		retryDelay:  opts.RetryDelay,
		workerLimit: opts.WorkerLimit,
		now:         opts.Now,
	}
	if d.maxRetries <= 0 {
		d.maxRetries = 3
	}
	if d.retryDelay <= 0 {
		d.retryDelay = 5 * time.Minute
	}
	if d.workerLimit <= 0 {
		d.workerLimit = 4
	}
	if d.now == nil {
		d.now = utils.GetCurrentTime
	}
	return d
}

// RunCycle processes every due pending post once. If another cycle is already
// running the call is a no-op, which keeps two overlapping cycles from
// double-dispatching the same post.
func (d *Dispatcher) RunCycle(ctx context.Context) (*model.CycleReport, error) {
	if !d.cycleMu.TryLock() {
		return &model.CycleReport{Skipped: true}, nil
	}
	defer d.cycleMu.Unlock()

	due, err := d.postRepo.FindDue(ctx, d.now())
	if err != nil {
		return nil, err
	}
	report := &model.CycleReport{Due: len(due)}
	if len(due) == 0 {
		return report, nil
	}
	logger.GetLogger().WithField("count", len(due)).Info("Found due post(s)")

	// Posts are independent units of work; a bounded pool keeps us under the
	// platform's rate limits. Worker errors are absorbed per post, never
	// returned, so one post cannot abort the batch.
	var mu sync.Mutex
	g := &errgroup.Group{}
	g.SetLimit(d.workerLimit)
	for _, post := range due {
		post := post
		g.Go(func() error {
			outcome := d.processPost(ctx, post)
			mu.Lock()
			switch outcome {
			case outcomePosted:
				report.Posted++
			case outcomePostedRecurred:
				report.Posted++
				report.Recurring++
			case outcomeRetried:
				report.Retried++
			case outcomeFailed:
				report.Failed++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return report, nil
}

type dispatchOutcome int

const (
	outcomeSkipped dispatchOutcome = iota
	outcomePosted
	outcomePostedRecurred
	outcomeRetried
	outcomeFailed
)

func (d *Dispatcher) processPost(ctx context.Context, post *model.ScheduledPost) dispatchOutcome {
	lg := logger.GetLogger().WithField("post_id", post.ID).WithField("page_id", post.PageID)

	page, err := d.pageRepo.GetByPageID(ctx, post.UserID, post.PageID)
	if err != nil {
		// repository trouble: leave the post untouched for the next cycle
		lg.WithField("error", err).Error("page credential lookup failed")
		return outcomeSkipped
	}
	if page == nil {
		return d.failPost(ctx, post, model.ErrPageCredentialNotFound)
	}

	fbPostID, err := d.graph.Publish(ctx, page.PageID, page.PageToken, post)
	if err != nil {
		msg := model.PlatformMessage(err)
		attempts := post.RetryCount + 1
		if !model.IsTransient(err) {
			// auth/policy rejections cannot succeed on retry
			lg.WithField("error", msg).Error("publish rejected permanently")
			return d.failPost(ctx, post, err)
		}
		if attempts >= d.maxRetries {
			lg.WithField("error", msg).WithField("attempts", attempts).Error("publish failed, retries exhausted")
			return d.failPost(ctx, post, err)
		}
		retryAt := d.now().Add(d.retryDelay)
		if rErr := d.postRepo.RescheduleRetry(ctx, post.ID, fmt.Sprintf("Retry %d: %s", attempts, msg), retryAt); rErr != nil {
			lg.WithField("error", rErr).Error("retry reschedule failed")
			return outcomeSkipped
		}
		lg.WithField("attempt", attempts).WithField("retry_at", retryAt).Warn("publish failed, retrying")
		return outcomeRetried
	}

	outcome := outcomePosted
	next, ok := d.nextOccurrence(post)
	if ok {
		if uErr := d.postRepo.MarkPostedWithNext(ctx, post.ID, fbPostID, next); uErr != nil {
			lg.WithField("error", uErr).Error("posted-with-recurrence update failed")
			return outcomeSkipped
		}
		outcome = outcomePostedRecurred
	} else {
		if uErr := d.postRepo.MarkPosted(ctx, post.ID, fbPostID); uErr != nil {
			lg.WithField("error", uErr).Error("posted update failed")
			return outcomeSkipped
		}
	}

	id := fbPostID
	_ = d.histRepo.Append(ctx, &model.PostHistory{
		UserID:   post.UserID,
		PageID:   post.PageID,
		PageName: post.PageName,
		Content:  post.Content,
		FBPostID: &id,
		Status:   model.PostStatusPosted,
		PostedAt: d.now(),
	})
	d.events.PublishOutcome(ctx, pubsub.EventFromPost(post, model.PostStatusPosted, fbPostID, ""))
	lg.WithField("fb_post_id", fbPostID).Info("Posted")
	return outcome
}

// failPost performs the terminal failure transition: status update, history
// row, outcome event. The stored message is the platform's own.
func (d *Dispatcher) failPost(ctx context.Context, post *model.ScheduledPost, cause error) dispatchOutcome {
	msg := model.PlatformMessage(cause)
	if err := d.postRepo.MarkFailed(ctx, post.ID, msg); err != nil {
		logger.GetLogger().WithField("post_id", post.ID).WithField("error", err).Error("failed-status update failed")
		return outcomeSkipped
	}
	m := msg
	_ = d.histRepo.Append(ctx, &model.PostHistory{
		UserID:   post.UserID,
		PageID:   post.PageID,
		PageName: post.PageName,
		Content:  post.Content,
		Status:   model.PostStatusFailed,
		ErrorMsg: &m,
		PostedAt: d.now(),
	})
	d.events.PublishOutcome(ctx, pubsub.EventFromPost(post, model.PostStatusFailed, "", msg))
	return outcomeFailed
}

func (d *Dispatcher) nextOccurrence(post *model.ScheduledPost) (*model.ScheduledPost, bool) {
	nextAt, ok := NextOccurrence(post.ScheduledAt, post.RepeatType)
	if !ok {
		return nil, false
	}
	return &model.ScheduledPost{
		UserID:      post.UserID,
		PageID:      post.PageID,
		PageName:    post.PageName,
		Content:     post.Content,
		ImageURL:    post.ImageURL,
		LinkURL:     post.LinkURL,
		PostType:    post.PostType,
		ScheduledAt: nextAt,
		RepeatType:  post.RepeatType,
	}, true
}
