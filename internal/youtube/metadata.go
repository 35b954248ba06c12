package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// SocialsMarker opens the boilerplate block that follows the summary sentence
// in every description.
const SocialsMarker = "Like 👍."

type Video struct {
	ID          string
	Title       string
	Description string
}

// Example is a published video reduced to the parts used for few-shot
// prompting.
type Example struct {
	Title    string
	Hashtags string
	Sentence string
}

type Client struct {
	svc *yt.Service
}

func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google api key is empty")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// VideoInfo returns the title and description of a video. An empty id, an
// unknown id and an API error all yield a nil video with a nil error; API
// errors are logged. Transport failures are returned.
func (c *Client) VideoInfo(ctx context.Context, id string) (*Video, error) {
	if id == "" {
		return nil, nil
	}

	resp, err := c.svc.Videos.List([]string{"snippet"}).Id(id).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			slog.Error("YouTube API error", "video", id, "status", apiErr.Code, "body", apiErr.Body)
			return nil, nil
		}
		return nil, fmt.Errorf("list video %s: %w", id, err)
	}

	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, nil
	}

	snippet := resp.Items[0].Snippet
	return &Video{ID: id, Title: snippet.Title, Description: snippet.Description}, nil
}

// Examples resolves every id into an Example. A video that cannot be found
// fails the whole call.
func (c *Client) Examples(ctx context.Context, ids []string) ([]Example, error) {
	examples := make([]Example, 0, len(ids))
	for _, id := range ids {
		video, err := c.VideoInfo(ctx, id)
		if err != nil {
			return nil, err
		}
		if video == nil {
			return nil, fmt.Errorf("example video %q not found", id)
		}

		examples = append(examples, Example{
			Title:    video.Title,
			Hashtags: Hashtags(video.Description),
			Sentence: Sentence(video.Description),
		})
	}
	return examples, nil
}

// Hashtags returns the last line of a description.
func Hashtags(description string) string {
	s := strings.ReplaceAll(description, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Sentence returns the trimmed text before SocialsMarker, or the whole
// trimmed description when the marker is absent.
func Sentence(description string) string {
	before, _, _ := strings.Cut(description, SocialsMarker)
	return strings.TrimSpace(before)
}
