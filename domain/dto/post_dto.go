package dto

import "time"

// SchedulePostRequest creates a new scheduled post.
type SchedulePostRequest struct {
	PageID      string    `json:"pageId" binding:"required"`
	PageName    string    `json:"pageName"`
	Content     string    `json:"content" binding:"required"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	LinkURL     *string   `json:"linkUrl,omitempty"`
	PostType    string    `json:"postType"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
	RepeatType  string    `json:"repeatType"`
}
