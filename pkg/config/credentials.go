package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/hashicorp/go-multierror"
)

const (
	SourceFile          = "file"
	SourceSecretManager = "secretmanager"
)

// Credential names one of the hosted-service secrets. The name doubles as the
// credential file stem and the Secret Manager secret id.
type Credential string

const (
	CredentialGoogle    Credential = "google"
	CredentialReplicate Credential = "replicate"
	CredentialOpenAI    Credential = "openai"
	CredentialGroq      Credential = "groq"
)

// SecretSource resolves a credential to its secret value.
type SecretSource interface {
	Secret(ctx context.Context, name Credential) (string, error)
}

type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Secret(_ context.Context, name Credential) (string, error) {
	path := filepath.Join(s.Dir, string(name)+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read credential file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

type SecretManagerSource struct {
	client  *secretmanager.Client
	project string
}

func NewSecretManagerSource(ctx context.Context, project string) (*SecretManagerSource, error) {
	if project == "" {
		return nil, fmt.Errorf("secret manager requires a project")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}

	return &SecretManagerSource{client: client, project: project}, nil
}

func (s *SecretManagerSource) Close() error {
	return s.client.Close()
}

func (s *SecretManagerSource) Secret(ctx context.Context, name Credential) (string, error) {
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.project, name),
	})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return strings.TrimSpace(string(resp.GetPayload().GetData())), nil
}

func loadCredentials(ctx context.Context, cfg *Config) error {
	switch cfg.Credentials.Source {
	case SourceFile:
		ApplyCredentials(ctx, cfg, NewFileSource(cfg.Credentials.Dir))
		return nil
	case SourceSecretManager:
		src, err := NewSecretManagerSource(ctx, cfg.Credentials.Project)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()
		ApplyCredentials(ctx, cfg, src)
		return nil
	default:
		return fmt.Errorf("unknown credentials source %q", cfg.Credentials.Source)
	}
}

// ApplyCredentials reads the three startup secrets from src. A secret that
// cannot be read is left empty; clients that need it refuse to start.
func ApplyCredentials(ctx context.Context, cfg *Config, src SecretSource) {
	targets := []struct {
		name Credential
		dst  *string
	}{
		{CredentialGoogle, &cfg.GoogleAPIKey},
		{CredentialReplicate, &cfg.ReplicateAPIToken},
		{CredentialOpenAI, &cfg.OpenAIAPIKey},
	}

	for _, t := range targets {
		value, err := src.Secret(ctx, t.name)
		if err != nil {
			slog.Warn("Credential not loaded", "name", t.name, "error", err)
			continue
		}
		*t.dst = value
	}
}

// Validate reports every credential in needs that is still empty.
func (c *Config) Validate(needs ...Credential) error {
	var result *multierror.Error
	for _, name := range needs {
		if c.credential(name) == "" {
			result = multierror.Append(result, fmt.Errorf("missing %s credential", name))
		}
	}
	return result.ErrorOrNil()
}

func (c *Config) credential(name Credential) string {
	switch name {
	case CredentialGoogle:
		return c.GoogleAPIKey
	case CredentialReplicate:
		return c.ReplicateAPIToken
	case CredentialOpenAI:
		return c.OpenAIAPIKey
	case CredentialGroq:
		return c.GroqAPIKey
	default:
		return ""
	}
}
