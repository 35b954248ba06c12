package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type VideoUpdater interface {
	SetThumbnail(ctx context.Context, videoID, path string) error
	UpdateDescription(ctx context.Context, videoID, title, description string) error
}

// Mirror copies a local artifact to remote storage and returns its location.
type Mirror interface {
	Publish(ctx context.Context, localPath string) (string, error)
}

type Publisher struct {
	videos VideoUpdater
	mirror Mirror
}

type PublishRequest struct {
	VideoID         string
	ThumbnailPath   string
	DescriptionPath string
}

type PublishResult struct {
	Title     string
	Mirrored  []string
	Thumbnail bool
}

func NewPublisherWith(videos VideoUpdater, mirror Mirror) *Publisher {
	return &Publisher{videos: videos, mirror: mirror}
}

// Close releases the mirror's client when it holds one.
func (p *Publisher) Close() error {
	if c, ok := p.mirror.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Publish applies the thumbnail and the description file to a video. The
// first line of the description file is the title; the rest is the body.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	if req.VideoID == "" {
		return nil, fmt.Errorf("video id is required")
	}
	if req.ThumbnailPath == "" && req.DescriptionPath == "" {
		return nil, fmt.Errorf("nothing to publish")
	}

	res := &PublishResult{}

	if req.ThumbnailPath != "" {
		if err := p.videos.SetThumbnail(ctx, req.VideoID, req.ThumbnailPath); err != nil {
			return nil, err
		}
		res.Thumbnail = true
	}

	if req.DescriptionPath != "" {
		data, err := os.ReadFile(req.DescriptionPath)
		if err != nil {
			return nil, fmt.Errorf("read description: %w", err)
		}

		title, body := SplitDocument(string(data))
		if err := p.videos.UpdateDescription(ctx, req.VideoID, title, body); err != nil {
			return nil, err
		}
		res.Title = title
	}

	for _, path := range []string{req.ThumbnailPath, req.DescriptionPath} {
		if path == "" || p.mirror == nil {
			continue
		}
		uri, err := p.Mirror(ctx, path)
		if err != nil {
			return nil, err
		}
		res.Mirrored = append(res.Mirrored, uri)
	}

	return res, nil
}

// Mirror copies path to remote storage when a mirror is configured.
func (p *Publisher) Mirror(ctx context.Context, path string) (string, error) {
	if p.mirror == nil {
		return "", nil
	}
	uri, err := p.mirror.Publish(ctx, path)
	if err != nil {
		return "", fmt.Errorf("mirror %s: %w", path, err)
	}
	slog.Debug("Artifact mirrored", "path", path, "uri", uri)
	return uri, nil
}

// SplitDocument separates a description document into its title line and
// the body that follows it.
func SplitDocument(doc string) (title, body string) {
	title, body, _ = strings.Cut(doc, "\n")
	return strings.TrimSpace(title), body
}
