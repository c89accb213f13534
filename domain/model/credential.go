package model

import "time"

// Audit actions recorded in token_refresh_log
const (
	AuditActionExchange = "exchange"
	AuditActionRefresh  = "refresh"
	AuditActionRevoke   = "revoke"
)

// Credential is the user-level long-lived Facebook access grant for one
// connected account. Unique per (user_id, fb_user_id); refreshed in place.
type Credential struct {
	ID            int64      `json:"id"`
	UserID        string     `json:"user_id"`
	FBUserID      string     `json:"fb_user_id"`
	FBUserName    string     `json:"fb_user_name"`
	FBUserPicture *string    `json:"fb_user_picture,omitempty"`
	ShortToken    string     `json:"-"`
	LongToken     string     `json:"-"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"` // nil until first exchange reports a TTL
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PageCredential is a page-scoped token under a Credential. Page tokens do not
// expire on the Facebook side; rows are re-upserted on every exchange/refresh.
type PageCredential struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	CredentialID int64     `json:"fb_token_id"`
	PageID       string    `json:"page_id"`
	PageName     string    `json:"page_name"`
	PageToken    string    `json:"-"`
	PagePicture  *string   `json:"page_picture,omitempty"`
	Category     *string   `json:"category,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenAudit is an append-only record of a credential lifecycle event.
type TokenAudit struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	FBUserID  string    `json:"fb_user_id"`
	Action    string    `json:"action"` // exchange | refresh | revoke
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// RefreshOutcome reports the result of refreshing one credential during a scan.
type RefreshOutcome struct {
	FBUserID  string     `json:"fb_user_id"`
	Success   bool       `json:"success"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}
