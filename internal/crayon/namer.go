package crayon

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"thumbcraft/internal/llm"
)

const (
	nameTemperature = 0.99
	rgbTemperature  = 0.1
)

// Fallback is returned whenever a colour cannot be generated.
var Fallback = Color{Name: "black", RGB: [3]int{0, 0, 0}}

type Color struct {
	Name string
	RGB  [3]int
}

func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: uint8(c.RGB[0]), G: uint8(c.RGB[1]), B: uint8(c.RGB[2]), A: 255}
}

type Namer struct {
	llm        llm.Client
	nameSystem string
	rgbSystem  string
}

func NewNamer(client llm.Client, nameSystem, rgbSystem string) *Namer {
	return &Namer{
		llm:        client,
		nameSystem: nameSystem,
		rgbSystem:  rgbSystem,
	}
}

// Generate asks for a crayon colour name, then for its RGB value. Colour is
// cosmetic: any failure yields Fallback and is never returned.
func (n *Namer) Generate(ctx context.Context) Color {
	c, err := n.generate(ctx)
	if err != nil {
		slog.Debug("Color generation failed, using fallback", "error", err)
		return Fallback
	}
	return c
}

func (n *Namer) generate(ctx context.Context) (Color, error) {
	name, err := n.llm.Complete(ctx, llm.Request{
		System:  n.nameSystem,
		Options: llm.Options{Temperature: nameTemperature},
	})
	if err != nil {
		return Color{}, fmt.Errorf("name color: %w", err)
	}

	raw, err := n.llm.Complete(ctx, llm.Request{
		System:   n.rgbSystem,
		Messages: llm.Prompt(name),
		Options:  llm.Options{Temperature: rgbTemperature},
	})
	if err != nil {
		return Color{}, fmt.Errorf("convert color: %w", err)
	}

	rgb, err := ParseRGB(raw)
	if err != nil {
		return Color{}, err
	}

	return Color{Name: name, RGB: rgb}, nil
}

// ParseRGB parses "R,G,B" into exactly three integer channels within
// [0,256]. A channel of 256 is accepted and clamped to 255.
func ParseRGB(raw string) ([3]int, error) {
	var rgb [3]int

	fields := strings.Split(raw, ",")
	if len(fields) != 3 {
		return rgb, fmt.Errorf("expected 3 channels, got %d in %q", len(fields), raw)
	}

	for i, field := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return rgb, fmt.Errorf("parse channel %q: %w", field, err)
		}
		if v < 0 || v > 256 {
			return rgb, fmt.Errorf("channel %d out of range", v)
		}
		rgb[i] = min(v, 255)
	}

	return rgb, nil
}
