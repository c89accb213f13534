package model

import "time"

// ScheduledPost statuses. Posted, failed and cancelled are terminal;
// pending is the only retryable state.
const (
	PostStatusPending   = "pending"
	PostStatusPosted    = "posted"
	PostStatusFailed    = "failed"
	PostStatusCancelled = "cancelled"
)

// Repeat kinds
const (
	RepeatNone    = "none"
	RepeatDaily   = "daily"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"
)

// ScheduledPost is a unit of future work against one page.
type ScheduledPost struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	PageID      string    `json:"page_id"`
	PageName    string    `json:"page_name"`
	Content     string    `json:"content"`
	ImageURL    *string   `json:"image_url,omitempty"`
	LinkURL     *string   `json:"link_url,omitempty"`
	PostType    string    `json:"post_type"`
	ScheduledAt time.Time `json:"scheduled_at"`
	RepeatType  string    `json:"repeat_type"`
	Status      string    `json:"status"`
	FBPostID    *string   `json:"fb_post_id,omitempty"`
	ErrorMsg    *string   `json:"error_msg,omitempty"`
	RetryCount  int       `json:"retry_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostHistory is the append-only record of a delivery outcome.
type PostHistory struct {
	ID       int64     `json:"id"`
	UserID   string    `json:"user_id"`
	PageID   string    `json:"page_id"`
	PageName string    `json:"page_name"`
	Content  string    `json:"content"`
	FBPostID *string   `json:"fb_post_id,omitempty"`
	Status   string    `json:"status"` // posted | failed
	ErrorMsg *string   `json:"error_msg,omitempty"`
	PostedAt time.Time `json:"posted_at"`
}

// PostStats summarizes a user's dispatch activity.
type PostStats struct {
	Total    int64 `json:"total"`
	Posted   int64 `json:"posted"`
	Failed   int64 `json:"failed"`
	Pending  int64 `json:"pending"`
	Today    int64 `json:"today"`
	ThisWeek int64 `json:"thisWeek"`
}

// CycleReport summarizes one dispatcher cycle.
type CycleReport struct {
	Skipped   bool `json:"skipped"` // another cycle was already running
	Due       int  `json:"due"`
	Posted    int  `json:"posted"`
	Retried   int  `json:"retried"`
	Failed    int  `json:"failed"`
	Recurring int  `json:"recurring"` // next occurrences created
}
