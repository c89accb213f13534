package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"page-scheduler/domain/dto"
	"page-scheduler/domain/model"
	"page-scheduler/domain/repository"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
	fboauth "golang.org/x/oauth2/facebook"
)

// fallbackTokenTTL is used when the Graph API omits expires_in (60 days).
const fallbackTokenTTL = 5184000 * time.Second

const oauthScopes = "pages_show_list,pages_read_engagement,pages_manage_posts,public_profile"

type Config struct {
	AppID       string
	AppSecret   string
	RedirectURI string
	GraphURL    string // e.g. https://graph.facebook.com/v19.0
	HTTPClient  *http.Client
}

type Client struct {
	appID     string
	appSecret string
	graphURL  string
	http      *http.Client
	oauth     *oauth2.Config
}

// NewFacebookClient builds the Graph API client. Missing app identity is a
// config error, surfaced at startup rather than on first call.
func NewFacebookClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return nil, model.NewPlatformError(model.ErrKindConfig, 0, "facebook app id/secret not configured")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	graphURL := strings.TrimRight(cfg.GraphURL, "/")
	if graphURL == "" {
		graphURL = "https://graph.facebook.com/v19.0"
	}
	return &Client{
		appID:     cfg.AppID,
		appSecret: cfg.AppSecret,
		graphURL:  graphURL,
		http:      httpClient,
		oauth: &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       strings.Split(oauthScopes, ","),
			Endpoint:     fboauth.Endpoint,
		},
	}, nil
}

var _ repository.IFacebookGraph = (*Client)(nil)

func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", model.NewPlatformError(model.ErrKindAuth, 0, err.Error())
	}
	return tok.AccessToken, nil
}

type exchangeParams struct {
	GrantType       string `url:"grant_type"`
	ClientID        string `url:"client_id"`
	ClientSecret    string `url:"client_secret"`
	FBExchangeToken string `url:"fb_exchange_token"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ExchangeLongLived performs the fb_exchange_token grant. Facebook accepts a
// current long-lived token here as well, which is how refresh works.
func (c *Client) ExchangeLongLived(ctx context.Context, token string) (string, time.Time, error) {
	v, _ := query.Values(exchangeParams{
		GrantType:       "fb_exchange_token",
		ClientID:        c.appID,
		ClientSecret:    c.appSecret,
		FBExchangeToken: token,
	})
	body, err := c.get(ctx, "/oauth/access_token?"+v.Encode())
	if err != nil {
		return "", time.Time{}, err
	}
	var res tokenResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", time.Time{}, model.NewPlatformError(model.ErrKindTransient, 0, "malformed token response: "+err.Error())
	}
	ttl := fallbackTokenTTL
	if res.ExpiresIn > 0 {
		ttl = time.Duration(res.ExpiresIn) * time.Second
	}
	return res.AccessToken, time.Now().UTC().Add(ttl), nil
}

type userInfoParams struct {
	AccessToken string `url:"access_token"`
	Fields      string `url:"fields"`
}

type picture struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (c *Client) GetUserInfo(ctx context.Context, token string) (*dto.FBUserInfo, error) {
	v, _ := query.Values(userInfoParams{AccessToken: token, Fields: "id,name,picture.type(large)"})
	body, err := c.get(ctx, "/me?"+v.Encode())
	if err != nil {
		return nil, err
	}
	var res struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Picture *picture `json:"picture"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, model.NewPlatformError(model.ErrKindTransient, 0, "malformed /me response: "+err.Error())
	}
	info := &dto.FBUserInfo{ID: res.ID, Name: res.Name}
	if res.Picture != nil && res.Picture.Data.URL != "" {
		u := res.Picture.Data.URL
		info.Picture = &u
	}
	return info, nil
}

func (c *Client) ListPages(ctx context.Context, longToken string) ([]dto.FBPage, error) {
	v, _ := query.Values(userInfoParams{AccessToken: longToken, Fields: "id,name,access_token,picture,category"})
	body, err := c.get(ctx, "/me/accounts?"+v.Encode())
	if err != nil {
		return nil, err
	}
	var res struct {
		Data []struct {
			ID          string   `json:"id"`
			Name        string   `json:"name"`
			AccessToken string   `json:"access_token"`
			Picture     *picture `json:"picture"`
			Category    string   `json:"category"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, model.NewPlatformError(model.ErrKindTransient, 0, "malformed /me/accounts response: "+err.Error())
	}
	pages := make([]dto.FBPage, 0, len(res.Data))
	for _, p := range res.Data {
		page := dto.FBPage{ID: p.ID, Name: p.Name, AccessToken: p.AccessToken}
		if p.Picture != nil && p.Picture.Data.URL != "" {
			u := p.Picture.Data.URL
			page.Picture = &u
		}
		if p.Category != "" {
			cat := p.Category
			page.Category = &cat
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Publish posts to the page feed; posts with an image go through /photos so
// the image is attached rather than linked.
func (c *Client) Publish(ctx context.Context, pageID, pageToken string, post *model.ScheduledPost) (string, error) {
	form := url.Values{}
	form.Set("access_token", pageToken)
	endpoint := fmt.Sprintf("%s/%s/feed", c.graphURL, url.PathEscape(pageID))
	if post.ImageURL != nil && *post.ImageURL != "" {
		endpoint = fmt.Sprintf("%s/%s/photos", c.graphURL, url.PathEscape(pageID))
		form.Set("url", *post.ImageURL)
		form.Set("caption", post.Content)
	} else {
		form.Set("message", post.Content)
		if post.LinkURL != nil && *post.LinkURL != "" {
			form.Set("link", *post.LinkURL)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	var res struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", model.NewPlatformError(model.ErrKindTransient, 0, "malformed publish response: "+err.Error())
	}
	if res.PostID != "" {
		return res.PostID, nil
	}
	return res.ID, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.graphURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		// Network failures and timeouts are retryable.
		return nil, model.NewPlatformError(model.ErrKindTransient, 0, err.Error())
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.NewPlatformError(model.ErrKindTransient, 0, err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyError(resp.StatusCode, body)
	}
	return body, nil
}

type graphError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// classifyError maps Graph API failures onto error kinds. This is the single
// place that inspects raw platform codes; everything above works with kinds.
func classifyError(status int, body []byte) error {
	var ge graphError
	if json.Unmarshal(body, &ge) != nil || ge.Error.Message == "" {
		if status >= 500 {
			return model.NewPlatformError(model.ErrKindTransient, 0, fmt.Sprintf("facebook returned %d: %s", status, string(body)))
		}
		return model.NewPlatformError(model.ErrKindPermanent, 0, fmt.Sprintf("facebook returned %d: %s", status, string(body)))
	}
	code := ge.Error.Code
	msg := ge.Error.Message
	switch {
	case code == 190 || ge.Error.Type == "OAuthException" && code == 102:
		// invalid/expired/revoked token
		return model.NewPlatformError(model.ErrKindAuth, code, msg)
	case code == 4 || code == 17 || code == 32 || code == 613:
		// application/user/page level rate limits
		return model.NewPlatformError(model.ErrKindTransient, code, msg)
	case code == 1 || code == 2:
		// unknown error / service temporarily unavailable
		return model.NewPlatformError(model.ErrKindTransient, code, msg)
	case code == 10 || (code >= 200 && code <= 299):
		// permission denied
		return model.NewPlatformError(model.ErrKindPermanent, code, msg)
	case code == 368 || code == 506:
		// policy block / duplicate content
		return model.NewPlatformError(model.ErrKindPermanent, code, msg)
	case status >= 500:
		return model.NewPlatformError(model.ErrKindTransient, code, msg)
	default:
		return model.NewPlatformError(model.ErrKindTransient, code, msg)
	}
}
