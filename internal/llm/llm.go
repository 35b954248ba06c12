package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.6
	DefaultMaxTokens   = 32
)

// DefaultStop ends a completion at the first newline, so every answer is a
// single line.
var DefaultStop = []string{"\n"}

type Message struct {
	Role    string
	Content string
}

// Options are the sampling parameters of a single completion. Zero values are
// replaced by the client's defaults.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Stop        []string
}

type Request struct {
	System   string
	Messages []Message
	Options  Options
}

type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Prompt wraps a single user string as a one-turn conversation.
func Prompt(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Conversation returns the messages to send, with the system instruction
// prepended when one is set.
func (r Request) Conversation() []Message {
	if r.System == "" {
		return r.Messages
	}
	messages := make([]Message, 0, len(r.Messages)+1)
	messages = append(messages, Message{Role: RoleSystem, Content: r.System})
	return append(messages, r.Messages...)
}

// WithDefaults fills unset options from base.
func (o Options) WithDefaults(base Options) Options {
	if o.Model == "" {
		o.Model = base.Model
	}
	if o.Temperature == 0 {
		o.Temperature = base.Temperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = base.MaxTokens
	}
	if o.Stop == nil {
		o.Stop = base.Stop
	}
	return o
}

// DefaultOptions are the sampling parameters used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Stop:        DefaultStop,
	}
}
