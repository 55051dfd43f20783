// Package oauth wraps the golang.org/x/oauth2 code flow for the
// supported identity providers and normalizes their profile payloads.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"quirk/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubUserURL     = "https://api.github.com/user"
)

// Profile 各提供方档案的统一形态
type Profile struct {
	Provider    string
	ID          string
	Username    string
	DisplayName string
	Email       string
	Avatar      string
}

// Provider 单个 OAuth 提供方：授权端点配置 + 档案拉取。
type Provider struct {
	Name   string
	config *oauth2.Config
	fetch  func(ctx context.Context, client *http.Client) (*Profile, error)
}

// NewGoogle builds the Google provider from config.
func NewGoogle(cfg config.OAuthProviderConfig) *Provider {
	return &Provider{
		Name: "google",
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
		fetch: fetchGoogleProfile,
	}
}

// NewGitHub builds the GitHub provider from config.
func NewGitHub(cfg config.OAuthProviderConfig) *Provider {
	return &Provider{
		Name: "github",
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		fetch: fetchGitHubProfile,
	}
}

// AuthURL 生成带 state 的提供方授权跳转地址
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades the callback code for a token and fetches the profile
// over the token-authorized client.
func (p *Provider) Exchange(ctx context.Context, code string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange failed: %w", err)
	}
	return p.fetch(ctx, p.config.Client(ctx, token))
}

func fetchGoogleProfile(ctx context.Context, client *http.Client) (*Profile, error) {
	var payload struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(ctx, client, googleUserInfoURL, &payload); err != nil {
		return nil, err
	}
	return &Profile{
		Provider:    "google",
		ID:          payload.ID,
		DisplayName: payload.Name,
		Email:       payload.Email,
		Avatar:      payload.Picture,
	}, nil
}

func fetchGitHubProfile(ctx context.Context, client *http.Client) (*Profile, error) {
	var payload struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"` // GitHub 可能不公开邮箱，留空由上层兜底
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, githubUserURL, &payload); err != nil {
		return nil, err
	}
	return &Profile{
		Provider:    "github",
		ID:          strconv.FormatInt(payload.ID, 10),
		Username:    payload.Login,
		DisplayName: payload.Name,
		Email:       payload.Email,
		Avatar:      payload.AvatarURL,
	}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("profile fetch %s: status %d: %s", url, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
