package pubsub

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/pubsub"
	"golang.org/x/sync/errgroup"

	"page-scheduler/domain/model"
	"page-scheduler/infrastructure/logger"
)

// maxOutcomeWaiters caps the goroutines waiting on server acks so sustained
// publish failures cannot pile them up.
const maxOutcomeWaiters = 16

// NewPubSub connects to GCP Pub/Sub; callers tolerate a nil client.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, nil
	}
	return pubsub.NewClient(ctx, projectID)
}

// DispatchEvent is published after every terminal dispatch outcome.
type DispatchEvent struct {
	PostID     int64     `json:"post_id"`
	UserID     string    `json:"user_id"`
	PageID     string    `json:"page_id"`
	Status     string    `json:"status"`
	FBPostID   string    `json:"fb_post_id,omitempty"`
	Error      string    `json:"error,omitempty"`
	RetryCount int       `json:"retry_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// IDispatchEvents publishes dispatch outcomes for downstream consumers.
type IDispatchEvents interface {
	PublishOutcome(ctx context.Context, ev DispatchEvent)
}

type DispatchEvents struct {
	topic   *pubsub.Topic
	waiters errgroup.Group
}

// NewDispatchEvents wraps a topic; a nil client yields a no-op publisher so
// the dispatcher never has to nil-check.
func NewDispatchEvents(client *pubsub.Client, topicName string) *DispatchEvents {
	d := &DispatchEvents{}
	d.waiters.SetLimit(maxOutcomeWaiters)
	if client != nil && topicName != "" {
		d.topic = client.Topic(topicName)
	}
	return d
}

// PublishOutcome is fire-and-forget: event loss never affects dispatch state.
func (d *DispatchEvents) PublishOutcome(ctx context.Context, ev DispatchEvent) {
	if d == nil || d.topic == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	d.observe(ev.PostID, d.topic.Publish(ctx, &pubsub.Message{Data: payload}))
}

// publishResult is the part of pubsub.PublishResult the waiter needs.
type publishResult interface {
	Get(ctx context.Context) (string, error)
}

// observe waits for the server ack off the dispatch path. When the bounded
// waiter pool is saturated the ack goes unobserved; delivery itself is still
// retried by the client.
func (d *DispatchEvents) observe(postID int64, result publishResult) bool {
	return d.waiters.TryGo(func() error {
		if _, err := result.Get(context.Background()); err != nil {
			logger.GetLogger().WithField("error", err).WithField("post_id", postID).Warn("dispatch event publish failed")
		}
		return nil
	})
}

// Close flushes buffered events and waits for the outstanding ack waiters.
func (d *DispatchEvents) Close() {
	if d == nil || d.topic == nil {
		return
	}
	d.topic.Stop()
	_ = d.waiters.Wait()
}

// EventFromPost builds the outcome event for a post's terminal transition.
func EventFromPost(post *model.ScheduledPost, status, fbPostID, errMsg string) DispatchEvent {
	return DispatchEvent{
		PostID:     post.ID,
		UserID:     post.UserID,
		PageID:     post.PageID,
		Status:     status,
		FBPostID:   fbPostID,
		Error:      errMsg,
		RetryCount: post.RetryCount,
		OccurredAt: time.Now().UTC(),
	}
}
