package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed prompts.yaml
var defaultPrompts []byte

type Prompts struct {
	System      SystemPrompts      `yaml:"system"`
	Thumbnail   ThumbnailPrompts   `yaml:"thumbnail"`
	Description DescriptionPrompts `yaml:"description"`
}

type SystemPrompts struct {
	ColorName       string `yaml:"color_name"`
	ColorRGB        string `yaml:"color_rgb"`
	PromptVariation string `yaml:"prompt_variation"`
	Title           string `yaml:"title"`
	Hashtags        string `yaml:"hashtags"`
}

type ThumbnailPrompts struct {
	Foreground string `yaml:"foreground"`
}

type DescriptionPrompts struct {
	Socials string `yaml:"socials"`
	Layout  string `yaml:"layout"`
}

type DocumentParams struct {
	Title    string
	Sentence string
	Socials  string
	Hashtags string
}

// Default returns the built-in prompt set.
func Default() *Prompts {
	var p Prompts
	if err := yaml.Unmarshal(defaultPrompts, &p); err != nil {
		panic(fmt.Sprintf("embedded prompts.yaml: %v", err))
	}
	return &p
}

// Load returns the built-in prompts overridden by prompts.yaml in the working
// directory, when one exists.
func Load() (*Prompts, error) {
	p, err := LoadFrom(defaultPromptsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return p, err
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	return p, nil
}

func (p *Prompts) RenderDocument(params DocumentParams) (string, error) {
	return render(p.Description.Layout, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
