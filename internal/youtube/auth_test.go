package youtube

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func writeToken(t *testing.T, path string, token *oauth2.Token) {
	t.Helper()
	data, err := json.Marshal(token)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
}

func TestNewAuth(t *testing.T) {
	auth := NewAuth("client-id", "client-secret", "/tmp/token.json", "")

	if auth.config.ClientID != "client-id" {
		t.Errorf("ClientID = %q, want client-id", auth.config.ClientID)
	}
	if auth.config.RedirectURL != DefaultRedirectURL {
		t.Errorf("RedirectURL = %q, want %q", auth.config.RedirectURL, DefaultRedirectURL)
	}
	if auth.TokenPath() != "/tmp/token.json" {
		t.Errorf("TokenPath() = %q", auth.TokenPath())
	}
}

func TestAuthURL(t *testing.T) {
	auth := NewAuth("client-id", "client-secret", "/tmp/token.json", "http://localhost:9999/cb")
	url := auth.AuthURL("state-xyz")

	for _, want := range []string{"client_id=client-id", "state=state-xyz", "access_type=offline", "localhost%3A9999"} {
		if !strings.Contains(url, want) {
			t.Errorf("AuthURL() = %q, missing %q", url, want)
		}
	}
}

func TestAuthLoadToken(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, path string)
		wantErr bool
	}{
		{
			name: "validToken",
			setup: func(t *testing.T, path string) {
				writeToken(t, path, &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(time.Hour)})
			},
		},
		{
			name:    "missingFile",
			setup:   func(t *testing.T, path string) {},
			wantErr: true,
		},
		{
			name: "invalidJSON",
			setup: func(t *testing.T, path string) {
				_ = os.WriteFile(path, []byte("not json"), 0600)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			tt.setup(t, path)

			err := NewAuth("id", "secret", path, "").LoadToken()
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthSaveToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	auth := NewAuth("id", "secret", path, "")

	if err := auth.SaveToken(); err == nil {
		t.Error("SaveToken() without a token should fail")
	}

	auth.token = &oauth2.Token{AccessToken: "saved", RefreshToken: "refresh"}
	if err := auth.SaveToken(); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("token file mode = %v, want 0600", info.Mode().Perm())
	}

	reloaded := NewAuth("id", "secret", path, "")
	if err := reloaded.LoadToken(); err != nil {
		t.Fatal(err)
	}
	if reloaded.token.AccessToken != "saved" {
		t.Errorf("AccessToken = %q, want saved", reloaded.token.AccessToken)
	}
}

func TestAuthIsAuthenticated(t *testing.T) {
	tests := []struct {
		name  string
		token *oauth2.Token
		want  bool
	}{
		{name: "valid", token: &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(time.Hour)}, want: true},
		{name: "expiredWithRefresh", token: &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Now().Add(-time.Hour)}, want: true},
		{name: "expiredNoRefresh", token: &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(-time.Hour)}, want: false},
		{name: "noToken", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			if tt.token != nil {
				writeToken(t, path, tt.token)
			}

			if got := NewAuth("id", "secret", path, "").IsAuthenticated(); got != tt.want {
				t.Errorf("IsAuthenticated() = %v, want %v", got, tt.want)
			}
		})
	}
}
