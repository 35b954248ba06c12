package app

import (
	"context"
	"fmt"
	"image"

	"google.golang.org/api/option"

	"thumbcraft/internal/crayon"
	"thumbcraft/internal/description"
	"thumbcraft/internal/imagegen"
	"thumbcraft/internal/llm"
	"thumbcraft/internal/llm/groq"
	"thumbcraft/internal/llm/openai"
	"thumbcraft/internal/paper"
	"thumbcraft/internal/rembg"
	"thumbcraft/internal/storage"
	"thumbcraft/internal/thumbnail"
	"thumbcraft/internal/youtube"
	"thumbcraft/pkg/config"
	"thumbcraft/pkg/prompts"
)

const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

// NewLLM returns the text generation client selected by llm.provider.
func NewLLM(cfg *config.Config) (llm.Client, error) {
	defaults := llm.Options{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}

	switch cfg.LLM.Provider {
	case ProviderOpenAI:
		if err := cfg.Validate(config.CredentialOpenAI); err != nil {
			return nil, err
		}
		return openai.NewClient(cfg.OpenAIAPIKey, openai.Options{Defaults: defaults})
	case ProviderGroq:
		if err := cfg.Validate(config.CredentialGroq); err != nil {
			return nil, err
		}
		return groq.NewClient(cfg.GroqAPIKey, "", defaults)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func NewThumbnailPipeline(cfg *config.Config, p *prompts.Prompts) (*thumbnail.Pipeline, error) {
	if err := cfg.Validate(config.CredentialOpenAI, config.CredentialReplicate); err != nil {
		return nil, err
	}

	client, err := NewLLM(cfg)
	if err != nil {
		return nil, err
	}

	images, err := NewImageClient(cfg)
	if err != nil {
		return nil, err
	}

	remover, err := rembg.NewClient(cfg.ReplicateAPIToken, cfg.Rembg.Model)
	if err != nil {
		return nil, err
	}

	colors := crayon.NewNamer(client, p.System.ColorName, p.System.ColorRGB)
	store := storage.NewLocalStorage(cfg.Thumbnail.OutputDir, cfg.Thumbnail.TmpDir)

	return thumbnail.NewPipeline(client, images, remover, colors, store, ThumbnailOptions(cfg, p)), nil
}

func NewImageClient(cfg *config.Config) (*imagegen.Client, error) {
	if err := cfg.Validate(config.CredentialOpenAI); err != nil {
		return nil, err
	}
	return imagegen.NewClient(cfg.OpenAIAPIKey, imagegen.Options{Size: cfg.Image.Size})
}

func ThumbnailOptions(cfg *config.Config, p *prompts.Prompts) thumbnail.Options {
	t := cfg.Thumbnail
	return thumbnail.Options{
		BasePrompt:      p.Thumbnail.Foreground,
		VariationSystem: p.System.PromptVariation,
		ForegroundSize:  t.ForegroundSize,
		CanvasSize:      image.Pt(t.CanvasWidth, t.CanvasHeight),
		FgSize:          image.Pt(t.FgWidth, t.FgHeight),
		FontsDir:        t.FontsDir,
		Font:            t.Font,
		FontSize:        float64(t.FontSize),
		Padding:         t.Padding,
	}
}

func NewVideoClient(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*youtube.Client, error) {
	if err := cfg.Validate(config.CredentialGoogle); err != nil {
		return nil, err
	}
	return youtube.NewClient(ctx, cfg.GoogleAPIKey, opts...)
}

func NewDescriptionGenerator(ctx context.Context, cfg *config.Config, p *prompts.Prompts) (*description.Generator, error) {
	client, err := NewLLM(cfg)
	if err != nil {
		return nil, err
	}

	videos, err := NewVideoClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := storage.NewLocalStorage(cfg.Description.OutputDir, "")
	return description.NewGenerator(client, videos, store, p), nil
}

func NewPaperClient(cfg *config.Config) *paper.Client {
	return paper.NewClient(cfg.Paper.BaseURL, nil)
}

// NewMirror returns the bucket mirror, or nil when gcs.enabled is off.
func NewMirror(ctx context.Context, cfg *config.Config) (*storage.GCSStorage, error) {
	if !cfg.GCS.Enabled {
		return nil, nil
	}
	return storage.NewGCSStorage(ctx, cfg.GCSBucket, cfg.GCS.Prefix)
}

func NewYouTubeAuth(cfg *config.Config) (*youtube.Auth, error) {
	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		return nil, fmt.Errorf("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET must be set")
	}
	return youtube.NewAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath, ""), nil
}

func NewPublisher(ctx context.Context, cfg *config.Config) (*Publisher, error) {
	auth, err := NewYouTubeAuth(cfg)
	if err != nil {
		return nil, err
	}

	mirror, err := NewMirror(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var m Mirror
	if mirror != nil {
		m = mirror
	}
	return NewPublisherWith(youtube.NewPublisher(auth), m), nil
}
