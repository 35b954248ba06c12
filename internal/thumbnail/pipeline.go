package thumbnail

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"thumbcraft/internal/compose"
	"thumbcraft/internal/crayon"
	"thumbcraft/internal/imagegen"
	"thumbcraft/internal/llm"
	"thumbcraft/internal/storage"
)

type ImageGenerator interface {
	Generate(ctx context.Context, req imagegen.Request) error
}

type BackgroundRemover interface {
	Remove(ctx context.Context, inputPath, outputPath string) error
}

type ColorSource interface {
	Generate(ctx context.Context) crayon.Color
}

type Options struct {
	BasePrompt      string
	VariationSystem string
	ForegroundSize  string
	CanvasSize      image.Point
	FgSize          image.Point
	FontsDir        string
	Font            string
	FontSize        float64
	Padding         int
}

func DefaultOptions() Options {
	return Options{
		BasePrompt:     "portrait of white bengal cat, blue eyes, cute, chubby",
		ForegroundSize: "512x512",
		CanvasSize:     compose.DefaultCanvasSize,
		FgSize:         compose.DefaultForegroundSize,
		FontsDir:       "./fonts",
		Font:           "Exo2-Bold",
		FontSize:       60,
		Padding:        20,
	}
}

type Pipeline struct {
	llm     llm.Client
	images  ImageGenerator
	rembg   BackgroundRemover
	colors  ColorSource
	storage *storage.LocalStorage
	opts    Options
}

type Result struct {
	OutputPath     string
	Prompt         string
	TextColor      crayon.Color
	RectangleColor crayon.Color
}

func NewPipeline(client llm.Client, images ImageGenerator, rembg BackgroundRemover, colors ColorSource, store *storage.LocalStorage, opts Options) *Pipeline {
	return &Pipeline{
		llm:     client,
		images:  images,
		rembg:   rembg,
		colors:  colors,
		storage: store,
		opts:    opts,
	}
}

// Run builds one thumbnail from the background image and title. Intermediate
// files stay in the scratch directory; the first failing step aborts the run.
func (p *Pipeline) Run(ctx context.Context, backgroundPath, title string) (*Result, error) {
	if err := p.storage.EnsureDirectories(); err != nil {
		return nil, err
	}

	prompt, err := p.llm.Complete(ctx, llm.Request{
		System:   p.opts.VariationSystem,
		Messages: llm.Prompt(p.opts.BasePrompt),
	})
	if err != nil {
		return nil, fmt.Errorf("vary foreground prompt: %w", err)
	}
	slog.Info("Foreground prompt", "prompt", prompt)

	fgName := p.storage.NewID()
	fgPath := p.storage.TmpPath(fgName + ".png")
	err = p.images.Generate(ctx, imagegen.Request{
		Prompt:     prompt,
		N:          1,
		Size:       p.opts.ForegroundSize,
		OutputPath: fgPath,
	})
	if err != nil {
		return nil, fmt.Errorf("generate foreground: %w", err)
	}

	cutoutPath := p.storage.TmpPath(fgName + "_nobg.png")
	if err := p.rembg.Remove(ctx, fgPath, cutoutPath); err != nil {
		return nil, fmt.Errorf("remove foreground background: %w", err)
	}

	bgName := p.storage.NewID()
	bgPath := p.storage.TmpPath(bgName + ".png")
	if err := compose.ResizeToCanvas(backgroundPath, bgPath, p.opts.CanvasSize); err != nil {
		return nil, fmt.Errorf("resize background: %w", err)
	}

	textColor := p.colors.Generate(ctx)
	rectColor := p.colors.Generate(ctx)
	slog.Info("Colors picked", "text", textColor.Name, "rectangle", rectColor.Name)

	textPath := p.storage.TmpPath(bgName + "_text.png")
	err = compose.DrawText(compose.DrawTextOptions{
		ImagePath:        bgPath,
		OutputPath:       textPath,
		Text:             title,
		TextColor:        textColor.RGBA(),
		FontsDir:         p.opts.FontsDir,
		Font:             p.opts.Font,
		FontSize:         p.opts.FontSize,
		RectangleColor:   rectColor.RGBA(),
		RectanglePadding: p.opts.Padding,
	})
	if err != nil {
		return nil, fmt.Errorf("draw title: %w", err)
	}

	outPath := p.storage.OutputPath(".png")
	err = compose.Stack(compose.StackOptions{
		ForegroundPath: cutoutPath,
		BackgroundPath: textPath,
		OutputPath:     outPath,
		FgSize:         p.opts.FgSize,
		BgSize:         p.opts.CanvasSize,
	})
	if err != nil {
		return nil, fmt.Errorf("stack layers: %w", err)
	}

	slog.Info("Thumbnail written", "path", outPath)

	return &Result{
		OutputPath:     outPath,
		Prompt:         prompt,
		TextColor:      textColor,
		RectangleColor: rectColor,
	}, nil
}
