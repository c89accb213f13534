package repository

import (
	"context"
	"time"

	"page-scheduler/domain/dto"
	"page-scheduler/domain/model"
)

// IFacebookGraph is the boundary to the Facebook Graph API. All failures are
// classified into model.PlatformError kinds by the implementation; callers
// only ever inspect the kind.
type IFacebookGraph interface {
	// AuthCodeURL builds the OAuth dialog URL for the given CSRF state.
	AuthCodeURL(state string) string
	// ExchangeCode swaps an OAuth callback code for a short-lived user token.
	ExchangeCode(ctx context.Context, code string) (string, error)
	// ExchangeLongLived swaps a short-lived (or current long-lived) user token
	// for a fresh long-lived one. The expiry falls back to 60 days when the
	// platform omits a TTL.
	ExchangeLongLived(ctx context.Context, token string) (string, time.Time, error)
	GetUserInfo(ctx context.Context, token string) (*dto.FBUserInfo, error)
	ListPages(ctx context.Context, longToken string) ([]dto.FBPage, error)
	// Publish posts the content to the page feed and returns the Facebook
	// post id.
	Publish(ctx context.Context, pageID, pageToken string, post *model.ScheduledPost) (string, error)
}
