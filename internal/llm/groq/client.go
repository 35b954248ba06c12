package groq

import (
	"context"
	"fmt"

	"github.com/conneroisu/groq-go"

	"thumbcraft/internal/llm"
)

var _ llm.Client = (*Client)(nil)

type Client struct {
	client   *groq.Client
	defaults llm.Options
}

func NewClient(apiKey, baseURL string, defaults llm.Options) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq api key is empty")
	}

	var (
		client *groq.Client
		err    error
	)
	if baseURL != "" {
		client, err = groq.NewClient(apiKey, groq.WithBaseURL(baseURL))
	} else {
		client, err = groq.NewClient(apiKey)
	}
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &Client{
		client:   client,
		defaults: defaults.WithDefaults(llm.DefaultOptions()),
	}, nil
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	resp, err := c.client.ChatCompletion(ctx, c.buildRequest(req))
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) buildRequest(req llm.Request) groq.ChatCompletionRequest {
	opts := req.Options.WithDefaults(c.defaults)

	conversation := req.Conversation()
	messages := make([]groq.ChatCompletionMessage, 0, len(conversation))
	for _, m := range conversation {
		msg := groq.ChatCompletionMessage{Role: groq.RoleUser, Content: m.Content}
		switch m.Role {
		case llm.RoleSystem:
			msg.Role = groq.RoleSystem
		case llm.RoleAssistant:
			msg.Role = groq.RoleAssistant
		}
		messages = append(messages, msg)
	}

	return groq.ChatCompletionRequest{
		Model:       groq.ChatModel(opts.Model),
		Messages:    messages,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
		Stop:        opts.Stop,
	}
}
