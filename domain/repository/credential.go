package repository

import (
	"context"
	"time"

	"page-scheduler/domain/model"
)

// ICredential persists user-level Facebook credentials.
// Upserts are keyed by (user_id, fb_user_id) so repeated exchanges are idempotent.
type ICredential interface {
	Upsert(ctx context.Context, cred *model.Credential) (*model.Credential, error)
	GetByUser(ctx context.Context, userID string) (*model.Credential, error)
	UpdateLongToken(ctx context.Context, userID, fbUserID, longToken string, expiresAt *time.Time) error
	Delete(ctx context.Context, userID, fbUserID string) error
	// FindExpiringWithin returns credentials whose expiry is non-null and
	// falls within the given number of days from now.
	FindExpiringWithin(ctx context.Context, days int) ([]*model.Credential, error)
}

// IPageCredential persists page-scoped tokens, keyed by (user_id, page_id).
type IPageCredential interface {
	Upsert(ctx context.Context, page *model.PageCredential) (*model.PageCredential, error)
	FindByUser(ctx context.Context, userID string) ([]*model.PageCredential, error)
	GetByPageID(ctx context.Context, userID, pageID string) (*model.PageCredential, error)
}

// ITokenAudit appends credential lifecycle events. Rows are never mutated.
type ITokenAudit interface {
	Append(ctx context.Context, audit *model.TokenAudit) error
	FindByUser(ctx context.Context, userID string, limit int) ([]*model.TokenAudit, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
