package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath       = "config.yaml"
	defaultCredentialsDir   = "."
	defaultCredentialSource = SourceFile
	defaultLLMProvider      = "openai"
	defaultOpenAIModel      = "gpt-3.5-turbo"
	defaultGroqModel        = "llama-3.3-70b-versatile"
	defaultTemperature      = 0.6
	defaultMaxTokens        = 32
	defaultImageSize        = "1024x1024"
	defaultForegroundSize   = "512x512"
	defaultRembgModel       = "cjwbw/rembg:fb8af171cfa1616ddcf1242c093f9c46bcada5ad4cf6f2fbe8b81b330ec5c003"
	defaultFontsDir         = "./fonts"
	defaultFont             = "Exo2-Bold"
	defaultFontSize         = 60
	defaultPadding          = 20
	defaultCanvasWidth      = 1280
	defaultCanvasHeight     = 720
	defaultFgWidth          = 420
	defaultFgHeight         = 420
	defaultOutputDir        = "./output"
	defaultTmpDir           = "./output/tmp"
	defaultPaperBaseURL     = "https://export.arxiv.org/api/query"
	defaultGCSPrefix        = "thumbcraft"
	defaultTokenPath        = "./youtube_token.json"
)

type Config struct {
	OpenAIAPIKey        string
	ReplicateAPIToken   string
	GoogleAPIKey        string
	GroqAPIKey          string
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeTokenPath    string
	GCSBucket           string
	GCPProject          string

	Credentials CredentialsConfig `yaml:"credentials"`
	LLM         LLMConfig         `yaml:"llm"`
	Image       ImageConfig       `yaml:"image"`
	Rembg       RembgConfig       `yaml:"rembg"`
	Thumbnail   ThumbnailConfig   `yaml:"thumbnail"`
	Description DescriptionConfig `yaml:"description"`
	Paper       PaperConfig       `yaml:"paper"`
	GCS         GCSConfig         `yaml:"gcs"`
}

type CredentialsConfig struct {
	Source  string `yaml:"source"` // "file" or "secretmanager"
	Dir     string `yaml:"dir"`
	Project string `yaml:"project"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"` // "openai" or "groq"
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type ImageConfig struct {
	Size string `yaml:"size"`
}

type RembgConfig struct {
	Model string `yaml:"model"`
}

type ThumbnailConfig struct {
	FontsDir       string `yaml:"fonts_dir"`
	Font           string `yaml:"font"`
	FontSize       int    `yaml:"font_size"`
	Padding        int    `yaml:"padding"`
	CanvasWidth    int    `yaml:"canvas_width"`
	CanvasHeight   int    `yaml:"canvas_height"`
	FgWidth        int    `yaml:"fg_width"`
	FgHeight       int    `yaml:"fg_height"`
	ForegroundSize string `yaml:"foreground_size"`
	OutputDir      string `yaml:"output_dir"`
	TmpDir         string `yaml:"tmp_dir"`
}

type DescriptionConfig struct {
	OutputDir       string   `yaml:"output_dir"`
	ExampleVideoIDs []string `yaml:"example_video_ids"`
}

type PaperConfig struct {
	BaseURL string `yaml:"base_url"`
}

type GCSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Prefix  string `yaml:"prefix"`
}

type environment struct {
	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	ReplicateAPIToken   string `env:"REPLICATE_API_TOKEN"`
	GoogleAPIKey        string `env:"GOOGLE_API_KEY"`
	GroqAPIKey          string `env:"GROQ_API_KEY"`
	YouTubeClientID     string `env:"YOUTUBE_CLIENT_ID"`
	YouTubeClientSecret string `env:"YOUTUBE_CLIENT_SECRET"`
	YouTubeTokenPath    string `env:"YOUTUBE_TOKEN_PATH"`
	GCSBucket           string `env:"GCS_BUCKET"`
	GCPProject          string `env:"GOOGLE_CLOUD_PROJECT"`
}

// Load builds the process configuration once: .env, config.yaml, defaults,
// credential files (or Secret Manager), then environment overrides.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := loadYAMLConfig(cfg, defaultConfigPath); err != nil {
		return nil, err
	}

	var environ environment
	if err := env.Parse(&environ); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.YouTubeClientID = environ.YouTubeClientID
	cfg.YouTubeClientSecret = environ.YouTubeClientSecret
	cfg.YouTubeTokenPath = environ.YouTubeTokenPath
	cfg.GCSBucket = environ.GCSBucket
	cfg.GCPProject = environ.GCPProject

	applyDefaults(cfg)

	if err := loadCredentials(ctx, cfg); err != nil {
		return nil, err
	}
	applyEnvironment(cfg, environ)

	return cfg, nil
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnvironment(cfg *Config, environ environment) {
	overrides := []struct {
		dst *string
		val string
	}{
		{&cfg.OpenAIAPIKey, environ.OpenAIAPIKey},
		{&cfg.ReplicateAPIToken, environ.ReplicateAPIToken},
		{&cfg.GoogleAPIKey, environ.GoogleAPIKey},
		{&cfg.GroqAPIKey, environ.GroqAPIKey},
	}
	for _, o := range overrides {
		if o.val != "" {
			*o.dst = o.val
		}
	}
}

func applyDefaults(cfg *Config) {
	applyCredentialsDefaults(cfg)
	applyLLMDefaults(cfg)
	applyImageDefaults(cfg)
	applyRembgDefaults(cfg)
	applyThumbnailDefaults(cfg)
	applyDescriptionDefaults(cfg)
	applyPaperDefaults(cfg)
	applyGCSDefaults(cfg)
	if cfg.YouTubeTokenPath == "" {
		cfg.YouTubeTokenPath = defaultTokenPath
	}
}

func applyCredentialsDefaults(cfg *Config) {
	if cfg.Credentials.Source == "" {
		cfg.Credentials.Source = defaultCredentialSource
	}
	if cfg.Credentials.Dir == "" {
		cfg.Credentials.Dir = defaultCredentialsDir
	}
	if cfg.Credentials.Project == "" {
		cfg.Credentials.Project = cfg.GCPProject
	}
}

func applyLLMDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = defaultLLMProvider
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultOpenAIModel
		if cfg.LLM.Provider == "groq" {
			cfg.LLM.Model = defaultGroqModel
		}
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = defaultTemperature
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = defaultMaxTokens
	}
}

func applyImageDefaults(cfg *Config) {
	if cfg.Image.Size == "" {
		cfg.Image.Size = defaultImageSize
	}
}

func applyRembgDefaults(cfg *Config) {
	if cfg.Rembg.Model == "" {
		cfg.Rembg.Model = defaultRembgModel
	}
}

func applyThumbnailDefaults(cfg *Config) {
	t := &cfg.Thumbnail
	if t.FontsDir == "" {
		t.FontsDir = defaultFontsDir
	}
	if t.Font == "" {
		t.Font = defaultFont
	}
	if t.FontSize == 0 {
		t.FontSize = defaultFontSize
	}
	if t.Padding == 0 {
		t.Padding = defaultPadding
	}
	if t.CanvasWidth == 0 {
		t.CanvasWidth = defaultCanvasWidth
	}
	if t.CanvasHeight == 0 {
		t.CanvasHeight = defaultCanvasHeight
	}
	if t.FgWidth == 0 {
		t.FgWidth = defaultFgWidth
	}
	if t.FgHeight == 0 {
		t.FgHeight = defaultFgHeight
	}
	if t.ForegroundSize == "" {
		t.ForegroundSize = defaultForegroundSize
	}
	if t.OutputDir == "" {
		t.OutputDir = defaultOutputDir
	}
	if t.TmpDir == "" {
		t.TmpDir = defaultTmpDir
	}
}

func applyDescriptionDefaults(cfg *Config) {
	if cfg.Description.OutputDir == "" {
		cfg.Description.OutputDir = defaultOutputDir
	}
}

func applyPaperDefaults(cfg *Config) {
	if cfg.Paper.BaseURL == "" {
		cfg.Paper.BaseURL = defaultPaperBaseURL
	}
}

func applyGCSDefaults(cfg *Config) {
	if cfg.GCS.Prefix == "" {
		cfg.GCS.Prefix = defaultGCSPrefix
	}
}
