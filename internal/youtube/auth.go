package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	yt "google.golang.org/api/youtube/v3"
)

const DefaultRedirectURL = "http://localhost:8085/callback"

var scopes = []string{
	yt.YoutubeUploadScope,
	yt.YoutubeScope,
}

// Auth holds the OAuth client configuration and the token persisted at
// tokenPath.
type Auth struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenPath string
}

func NewAuth(clientID, clientSecret, tokenPath, redirectURL string) *Auth {
	if redirectURL == "" {
		redirectURL = DefaultRedirectURL
	}
	return &Auth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       scopes,
			RedirectURL:  redirectURL,
		},
		tokenPath: tokenPath,
	}
}

func (a *Auth) TokenPath() string {
	return a.tokenPath
}

func (a *Auth) LoadToken() error {
	data, err := os.ReadFile(a.tokenPath)
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("parse token: %w", err)
	}

	a.token = &token
	return nil
}

func (a *Auth) SaveToken() error {
	if a.token == nil {
		return fmt.Errorf("no token to save")
	}

	data, err := json.MarshalIndent(a.token, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	if err := os.WriteFile(a.tokenPath, data, 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

func (a *Auth) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and persists it.
func (a *Auth) Exchange(ctx context.Context, code string) error {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}

	a.token = token
	return a.SaveToken()
}

func (a *Auth) Client(ctx context.Context) (*http.Client, error) {
	if a.token == nil {
		if err := a.LoadToken(); err != nil {
			return nil, err
		}
	}
	return a.config.Client(ctx, a.token), nil
}

// IsAuthenticated reports whether a token is stored that can still be used,
// either directly or through its refresh token.
func (a *Auth) IsAuthenticated() bool {
	if a.token == nil {
		if err := a.LoadToken(); err != nil {
			return false
		}
	}
	return a.token.Valid() || a.token.RefreshToken != ""
}
