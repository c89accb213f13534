package dto

import "time"

// ConnectRequest carries a short-lived user token obtained client-side.
type ConnectRequest struct {
	ShortToken string `json:"shortToken" binding:"required"`
}

// FBUserInfo is the identity payload from GET /me.
type FBUserInfo struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Picture *string `json:"picture,omitempty"`
}

// FBPage is one entry from GET /me/accounts.
type FBPage struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	AccessToken string  `json:"access_token"`
	Picture     *string `json:"picture,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// ConnectResponse is returned after a successful connect/exchange.
type ConnectResponse struct {
	FBUser    FBUserInfo  `json:"fbUser"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
	Pages     []PageBrief `json:"pages"`
}

type PageBrief struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Picture *string `json:"picture,omitempty"`
}

// FacebookStatus reports whether an account is connected and when its token expires.
type FacebookStatus struct {
	Connected  bool       `json:"connected"`
	FBUserName string     `json:"fb_user_name,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	PageCount  int        `json:"page_count"`
}
