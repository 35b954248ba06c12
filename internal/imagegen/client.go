package imagegen

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/sashabaranov/go-openai"

	"thumbcraft/pkg/httputil"
)

const DefaultSize = openai.CreateImageSize1024x1024

type Client struct {
	api        *openai.Client
	downloader *httputil.Downloader
	size       string
}

type Options struct {
	BaseURL    string
	Size       string
	HTTPClient *http.Client
}

// Request describes one generation. An empty Prompt asks for a variation of
// the image at SeedPath instead.
type Request struct {
	Prompt     string
	SeedPath   string
	N          int
	Size       string
	OutputPath string
}

func NewClient(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is empty")
	}

	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	size := opts.Size
	if size == "" {
		size = DefaultSize
	}

	return &Client{
		api:        openai.NewClientWithConfig(cfg),
		downloader: httputil.NewDownloader(opts.HTTPClient),
		size:       size,
	}, nil
}

// Generate creates the image and stores the first result as PNG at
// req.OutputPath.
func (c *Client) Generate(ctx context.Context, req Request) error {
	if req.N <= 0 {
		req.N = 1
	}
	if req.Size == "" {
		req.Size = c.size
	}

	var (
		resp openai.ImageResponse
		err  error
	)
	if req.Prompt == "" {
		resp, err = c.variation(ctx, req)
	} else {
		slog.Debug("Generating image", "prompt", req.Prompt, "size", req.Size)
		resp, err = c.api.CreateImage(ctx, openai.ImageRequest{
			Prompt: req.Prompt,
			N:      req.N,
			Size:   req.Size,
		})
	}
	if err != nil {
		return fmt.Errorf("generate image: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return fmt.Errorf("generate image: empty result")
	}

	if err := c.downloader.SaveImage(ctx, resp.Data[0].URL, req.OutputPath); err != nil {
		return fmt.Errorf("save generated image: %w", err)
	}

	slog.Debug("Image saved", "path", req.OutputPath)
	return nil
}

func (c *Client) variation(ctx context.Context, req Request) (openai.ImageResponse, error) {
	if req.SeedPath == "" {
		return openai.ImageResponse{}, fmt.Errorf("variation needs a seed image")
	}

	seed, err := os.Open(req.SeedPath)
	if err != nil {
		return openai.ImageResponse{}, fmt.Errorf("open seed image: %w", err)
	}
	defer func() { _ = seed.Close() }()

	slog.Debug("Generating image variation", "seed", req.SeedPath, "size", req.Size)
	return c.api.CreateVariImage(ctx, openai.ImageVariRequest{
		Image: seed,
		N:     req.N,
		Size:  req.Size,
	})
}
