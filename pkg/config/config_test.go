package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	orig, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(orig) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"OPENAI_API_KEY", "REPLICATE_API_TOKEN", "GOOGLE_API_KEY", "GROQ_API_KEY"} {
		t.Setenv(key, "")
	}
	return tmp
}

func TestLoadFromYAML(t *testing.T) {
	tmp := chdirTemp(t)

	yaml := `
llm:
  provider: groq
  temperature: 0.3
thumbnail:
  font: Roboto-Black
  font_size: 48
description:
  example_video_ids: ["abc", "def"]
`
	_ = os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte(yaml), 0644)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.LLM.Provider != "groq" {
		t.Errorf("LLM.Provider = %q, want groq", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != defaultGroqModel {
		t.Errorf("LLM.Model = %q, want %q", cfg.LLM.Model, defaultGroqModel)
	}
	if cfg.LLM.Temperature != 0.3 {
		t.Errorf("LLM.Temperature = %v, want 0.3", cfg.LLM.Temperature)
	}
	if cfg.Thumbnail.Font != "Roboto-Black" {
		t.Errorf("Thumbnail.Font = %q, want Roboto-Black", cfg.Thumbnail.Font)
	}
	if cfg.Thumbnail.FontSize != 48 {
		t.Errorf("Thumbnail.FontSize = %d, want 48", cfg.Thumbnail.FontSize)
	}
	if len(cfg.Description.ExampleVideoIDs) != 2 {
		t.Errorf("Description.ExampleVideoIDs = %v, want 2 ids", cfg.Description.ExampleVideoIDs)
	}
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.LLM.Provider != "openai" {
		t.Errorf("LLM.Provider = %q, want openai", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "gpt-3.5-turbo" {
		t.Errorf("LLM.Model = %q, want gpt-3.5-turbo", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 32 {
		t.Errorf("LLM.MaxTokens = %d, want 32", cfg.LLM.MaxTokens)
	}
	if cfg.Thumbnail.CanvasWidth != 1280 || cfg.Thumbnail.CanvasHeight != 720 {
		t.Errorf("canvas = %dx%d, want 1280x720", cfg.Thumbnail.CanvasWidth, cfg.Thumbnail.CanvasHeight)
	}
	if cfg.Thumbnail.FgWidth != 420 || cfg.Thumbnail.FgHeight != 420 {
		t.Errorf("foreground = %dx%d, want 420x420", cfg.Thumbnail.FgWidth, cfg.Thumbnail.FgHeight)
	}
	if cfg.Credentials.Source != SourceFile {
		t.Errorf("Credentials.Source = %q, want file", cfg.Credentials.Source)
	}
	if cfg.YouTubeTokenPath != defaultTokenPath {
		t.Errorf("YouTubeTokenPath = %q, want %q", cfg.YouTubeTokenPath, defaultTokenPath)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	tmp := chdirTemp(t)
	_ = os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte("llm: [unclosed"), 0644)

	if _, err := Load(context.Background()); err == nil {
		t.Error("Load() should fail on malformed config.yaml")
	}
}

func TestLoadCredentialFiles(t *testing.T) {
	tmp := chdirTemp(t)
	_ = os.WriteFile(filepath.Join(tmp, "openai.txt"), []byte("sk-test\n"), 0600)
	_ = os.WriteFile(filepath.Join(tmp, "replicate.txt"), []byte("r8-test"), 0600)
	_ = os.WriteFile(filepath.Join(tmp, "google.txt"), []byte("  AIza-test  "), 0600)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q, want sk-test", cfg.OpenAIAPIKey)
	}
	if cfg.ReplicateAPIToken != "r8-test" {
		t.Errorf("ReplicateAPIToken = %q, want r8-test", cfg.ReplicateAPIToken)
	}
	if cfg.GoogleAPIKey != "AIza-test" {
		t.Errorf("GoogleAPIKey = %q, want AIza-test", cfg.GoogleAPIKey)
	}
}

func TestLoadEnvOverridesCredentialFile(t *testing.T) {
	tmp := chdirTemp(t)
	_ = os.WriteFile(filepath.Join(tmp, "openai.txt"), []byte("from-file"), 0600)
	t.Setenv("OPENAI_API_KEY", "from-env")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.OpenAIAPIKey != "from-env" {
		t.Errorf("OpenAIAPIKey = %q, want from-env", cfg.OpenAIAPIKey)
	}
}

func TestLoadUnknownCredentialSource(t *testing.T) {
	tmp := chdirTemp(t)
	_ = os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte("credentials:\n  source: vault\n"), 0644)

	if _, err := Load(context.Background()); err == nil {
		t.Error("Load() should fail on unknown credentials source")
	}
}

type stubSource map[Credential]string

func (s stubSource) Secret(_ context.Context, name Credential) (string, error) {
	v, ok := s[name]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestApplyCredentials(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "keep"}
	ApplyCredentials(context.Background(), cfg, stubSource{CredentialGoogle: "g", CredentialReplicate: "r"})

	if cfg.GoogleAPIKey != "g" {
		t.Errorf("GoogleAPIKey = %q, want g", cfg.GoogleAPIKey)
	}
	if cfg.ReplicateAPIToken != "r" {
		t.Errorf("ReplicateAPIToken = %q, want r", cfg.ReplicateAPIToken)
	}
	if cfg.OpenAIAPIKey != "keep" {
		t.Errorf("OpenAIAPIKey = %q, want unchanged", cfg.OpenAIAPIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		needs   []Credential
		wantErr bool
		wantMsg []string
	}{
		{
			name:  "allPresent",
			cfg:   Config{OpenAIAPIKey: "a", ReplicateAPIToken: "b"},
			needs: []Credential{CredentialOpenAI, CredentialReplicate},
		},
		{
			name:    "twoMissing",
			cfg:     Config{OpenAIAPIKey: "a"},
			needs:   []Credential{CredentialOpenAI, CredentialReplicate, CredentialGoogle},
			wantErr: true,
			wantMsg: []string{"replicate", "google"},
		},
		{
			name: "nothingNeeded",
			cfg:  Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.needs...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, msg := range tt.wantMsg {
				if !strings.Contains(err.Error(), msg) {
					t.Errorf("Validate() error %q does not mention %q", err, msg)
				}
			}
		})
	}
}
