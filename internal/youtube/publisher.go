package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// Publisher applies generated artifacts to an existing video on behalf of the
// authenticated channel.
type Publisher struct {
	auth *Auth
	opts []option.ClientOption
}

func NewPublisher(auth *Auth, opts ...option.ClientOption) *Publisher {
	return &Publisher{auth: auth, opts: opts}
}

func (p *Publisher) service(ctx context.Context) (*yt.Service, error) {
	httpClient, err := p.auth.Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("get auth client: %w", err)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, p.opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return svc, nil
}

// SetThumbnail uploads the image at path as the custom thumbnail of videoID.
func (p *Publisher) SetThumbnail(ctx context.Context, videoID, path string) error {
	svc, err := p.service(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open thumbnail: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := svc.Thumbnails.Set(videoID).Media(f).Context(ctx).Do(); err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}

	slog.Info("Thumbnail set", "video", videoID, "path", path)
	return nil
}

// UpdateDescription replaces the title and description of videoID, keeping
// the rest of its snippet. An empty title keeps the current one.
func (p *Publisher) UpdateDescription(ctx context.Context, videoID, title, description string) error {
	svc, err := p.service(ctx)
	if err != nil {
		return err
	}

	resp, err := svc.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("fetch video %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return fmt.Errorf("video %s not found", videoID)
	}

	snippet := resp.Items[0].Snippet
	if title != "" {
		snippet.Title = title
	}
	snippet.Description = description

	video := &yt.Video{Id: videoID, Snippet: snippet}
	if _, err := svc.Videos.Update([]string{"snippet"}, video).Context(ctx).Do(); err != nil {
		return fmt.Errorf("update video %s: %w", videoID, err)
	}

	slog.Info("Description updated", "video", videoID, "title", snippet.Title)
	return nil
}
