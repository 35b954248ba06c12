package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"thumbcraft/internal/app"
	"thumbcraft/internal/youtube"
	"thumbcraft/pkg/config"
)

const callbackAddr = "localhost:8085"

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with external services",
	Long:  `Authenticate with YouTube and check which service credentials are configured.`,
}

var authYouTubeCmd = &cobra.Command{
	Use:   "youtube",
	Short: "Authenticate with YouTube (OAuth)",
	Long:  `Complete the YouTube OAuth flow using YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET.`,
	RunE:  runAuthYouTube,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check authentication status for all services",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authYouTubeCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(infoStyle.Render("\nService Authentication Status:\n"))

	keys := []struct {
		name     string
		cred     config.Credential
		optional bool
	}{
		{"OpenAI", config.CredentialOpenAI, false},
		{"Replicate", config.CredentialReplicate, false},
		{"Google API", config.CredentialGoogle, false},
		{"Groq", config.CredentialGroq, true},
	}
	for _, k := range keys {
		switch {
		case cfg.Validate(k.cred) == nil:
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s: key configured", k.name)))
		case k.optional:
			fmt.Println(infoStyle.Render(fmt.Sprintf("○ %s: not configured (optional)", k.name)))
		default:
			fmt.Println(errorStyle.Render(fmt.Sprintf("✗ %s: missing %s credential", k.name, k.cred)))
		}
	}

	auth, err := app.NewYouTubeAuth(cfg)
	switch {
	case err != nil:
		fmt.Println(errorStyle.Render("✗ YouTube: missing YOUTUBE_CLIENT_ID or YOUTUBE_CLIENT_SECRET"))
	case auth.IsAuthenticated():
		fmt.Println(successStyle.Render("✓ YouTube: authenticated"))
	default:
		fmt.Println(errorStyle.Render("✗ YouTube: credentials set, but not authenticated"))
		fmt.Println(infoStyle.Render("  Run: thumbcraft auth youtube"))
	}

	if cfg.GCS.Enabled {
		if cfg.GCSBucket != "" {
			fmt.Println(successStyle.Render("✓ GCS mirror: gs://" + cfg.GCSBucket + "/" + cfg.GCS.Prefix))
		} else {
			fmt.Println(errorStyle.Render("✗ GCS mirror: enabled but GCS_BUCKET is not set"))
		}
	} else {
		fmt.Println(infoStyle.Render("○ GCS mirror: disabled (optional)"))
	}

	fmt.Println()
	return nil
}

func runAuthYouTube(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	auth, err := app.NewYouTubeAuth(cfg)
	if err != nil {
		return err
	}

	return runYouTubeAuth(cmd.Context(), auth)
}

func runYouTubeAuth(ctx context.Context, auth *youtube.Auth) error {
	state := uuid.NewString()
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	listener, err := net.Listen("tcp", callbackAddr)
	if err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}

	server := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
	}

	server.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/callback" {
			http.NotFound(w, r)
			return
		}

		if r.URL.Query().Get("state") != state {
			errChan <- errors.New("state mismatch in callback")
			_, _ = fmt.Fprintf(w, "<html><body><h1>Error</h1><p>Invalid state.</p></body></html>")
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- errors.New("no code in callback")
			_, _ = fmt.Fprintf(w, "<html><body><h1>Error</h1><p>No authorization code received.</p></body></html>")
			return
		}

		codeChan <- code
		_, _ = fmt.Fprintf(w, "<html><body><h1>Success!</h1><p>You can close this window and return to the terminal.</p></body></html>")
	})

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	authURL := auth.AuthURL(state)
	fmt.Println(infoStyle.Render("\nOpening browser for YouTube authentication..."))
	fmt.Println(infoStyle.Render("If browser doesn't open, visit:\n" + authURL))

	_ = browser.OpenURL(authURL)

	fmt.Println(infoStyle.Render("\nWaiting for authentication..."))

	select {
	case code := <-codeChan:
		if err := auth.Exchange(ctx, code); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ YouTube authentication complete"))
		fmt.Println(successStyle.Render("  Token saved to: " + auth.TokenPath()))
		return nil

	case err := <-errChan:
		return err

	case <-ctx.Done():
		return ctx.Err()

	case <-time.After(5 * time.Minute):
		return errors.New("authentication timed out")
	}
}
