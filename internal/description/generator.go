package description

import (
	"context"
	"fmt"
	"log/slog"

	"thumbcraft/internal/llm"
	"thumbcraft/internal/youtube"
	"thumbcraft/pkg/prompts"
)

const temperature = 0.6

type ExampleSource interface {
	Examples(ctx context.Context, ids []string) ([]youtube.Example, error)
}

type TextSaver interface {
	SaveText(content string) (string, error)
}

type Generator struct {
	llm      llm.Client
	examples ExampleSource
	saver    TextSaver
	prompts  *prompts.Prompts
}

// Document is a written description file.
type Document struct {
	Title    string
	Hashtags string
	Content  string
	Path     string
}

func NewGenerator(client llm.Client, examples ExampleSource, saver TextSaver, p *prompts.Prompts) *Generator {
	return &Generator{
		llm:      client,
		examples: examples,
		saver:    saver,
		prompts:  p,
	}
}

// Generate writes a description for sentence, titled and tagged in the style
// of the example videos.
func (g *Generator) Generate(ctx context.Context, sentence string, exampleIDs []string) (*Document, error) {
	examples, err := g.examples.Examples(ctx, exampleIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch examples: %w", err)
	}

	title, err := g.llm.Complete(ctx, llm.Request{
		System:   g.prompts.System.Title,
		Messages: fewShot(examples, sentence, func(e youtube.Example) string { return e.Title }),
		Options:  llm.Options{Temperature: temperature},
	})
	if err != nil {
		return nil, fmt.Errorf("generate title: %w", err)
	}

	hashtags, err := g.llm.Complete(ctx, llm.Request{
		System:   g.prompts.System.Hashtags,
		Messages: fewShot(examples, sentence, func(e youtube.Example) string { return e.Hashtags }),
		Options:  llm.Options{Temperature: temperature},
	})
	if err != nil {
		return nil, fmt.Errorf("generate hashtags: %w", err)
	}

	content, err := g.prompts.RenderDocument(prompts.DocumentParams{
		Title:    title,
		Sentence: sentence,
		Socials:  g.prompts.Description.Socials,
		Hashtags: hashtags,
	})
	if err != nil {
		return nil, fmt.Errorf("render description: %w", err)
	}

	path, err := g.saver.SaveText(content)
	if err != nil {
		return nil, fmt.Errorf("save description: %w", err)
	}

	slog.Info("Description written", "path", path, "title", title)

	return &Document{Title: title, Hashtags: hashtags, Content: content, Path: path}, nil
}

// fewShot alternates example sentences with the chosen answer and ends on the
// target sentence.
func fewShot(examples []youtube.Example, sentence string, answer func(youtube.Example) string) []llm.Message {
	messages := make([]llm.Message, 0, 2*len(examples)+1)
	for _, e := range examples {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: e.Sentence},
			llm.Message{Role: llm.RoleAssistant, Content: answer(e)},
		)
	}
	return append(messages, llm.Message{Role: llm.RoleUser, Content: sentence})
}
