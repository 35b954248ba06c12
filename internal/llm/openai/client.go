package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"thumbcraft/internal/llm"
)

var _ llm.Client = (*Client)(nil)

type Client struct {
	api      *openai.Client
	defaults llm.Options
}

type Options struct {
	BaseURL  string
	Defaults llm.Options
}

func NewClient(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is empty")
	}

	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &Client{
		api:      openai.NewClientWithConfig(cfg),
		defaults: opts.Defaults.WithDefaults(llm.DefaultOptions()),
	}, nil
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	opts := req.Options.WithDefaults(c.defaults)

	conversation := req.Conversation()
	messages := make([]openai.ChatCompletionMessage, 0, len(conversation))
	for _, m := range conversation {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
		Stop:        opts.Stop,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices")
	}

	return resp.Choices[0].Message.Content, nil
}
