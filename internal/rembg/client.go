package rembg

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/replicate/replicate-go"

	"thumbcraft/pkg/httputil"
)

const DefaultModel = "cjwbw/rembg:fb8af171cfa1616ddcf1242c093f9c46bcada5ad4cf6f2fbe8b81b330ec5c003"

// Runner runs a model version to completion. *replicate.Client satisfies it.
type Runner interface {
	Run(ctx context.Context, identifier string, input replicate.PredictionInput, webhook *replicate.Webhook) (replicate.PredictionOutput, error)
}

type Client struct {
	runner     Runner
	downloader *httputil.Downloader
	model      string
}

func NewClient(token, model string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("replicate api token is empty")
	}

	api, err := replicate.NewClient(replicate.WithToken(token))
	if err != nil {
		return nil, fmt.Errorf("create replicate client: %w", err)
	}

	return NewClientWithRunner(api, model, nil), nil
}

func NewClientWithRunner(runner Runner, model string, httpClient *http.Client) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		runner:     runner,
		downloader: httputil.NewDownloader(httpClient),
		model:      model,
	}
}

// Remove uploads the image at inputPath, waits for the cutout and stores it as
// PNG at outputPath.
func (c *Client) Remove(ctx context.Context, inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input image: %w", err)
	}

	slog.Debug("Removing background", "input", inputPath, "model", c.model)

	out, err := c.runner.Run(ctx, c.model, replicate.PredictionInput{"image": dataURI(data)}, nil)
	if err != nil {
		return fmt.Errorf("run background removal: %w", err)
	}

	url, err := outputURL(out)
	if err != nil {
		return err
	}

	if err := c.downloader.SaveImage(ctx, url, outputPath); err != nil {
		return fmt.Errorf("save cutout: %w", err)
	}

	slog.Debug("Background removed", "path", outputPath)
	return nil
}

func dataURI(data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(data), base64.StdEncoding.EncodeToString(data))
}

func outputURL(out replicate.PredictionOutput) (string, error) {
	switch v := out.(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok && s != "" {
				return s, nil
			}
		}
	}
	return "", fmt.Errorf("background removal: unexpected output %v", out)
}
