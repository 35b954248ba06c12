package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"thumbcraft/internal/app"
	"thumbcraft/internal/thumbnail"
	"thumbcraft/pkg/config"
	"thumbcraft/pkg/prompts"
)

var (
	thumbBackground string
	thumbTitle      string
)

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail",
	Short: "Generate a thumbnail",
	Long: `Generate a foreground subject, cut it out, and composite it with the title
over the given background image.`,
	RunE: runThumbnail,
}

func init() {
	thumbnailCmd.Flags().StringVarP(&thumbBackground, "background", "b", "", "Background image path")
	thumbnailCmd.Flags().StringVarP(&thumbTitle, "title", "t", "", "Title drawn on the thumbnail")
	rootCmd.AddCommand(thumbnailCmd)
}

func runThumbnail(cmd *cobra.Command, args []string) error {
	if thumbBackground == "" || thumbTitle == "" {
		return errors.New("please provide --background and --title")
	}

	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	p, err := prompts.Load()
	if err != nil {
		return err
	}

	pipeline, err := app.NewThumbnailPipeline(cfg, p)
	if err != nil {
		return err
	}

	var result *thumbnail.Result
	err = runWithSpinner("Generating thumbnail", func() error {
		result, err = pipeline.Run(ctx, thumbBackground, thumbTitle)
		return err
	})
	if err != nil {
		return err
	}

	printField("Thumbnail", result.OutputPath)
	printField("Prompt", result.Prompt)
	printField("Text color", fmt.Sprintf("%s %v", result.TextColor.Name, result.TextColor.RGB))
	printField("Box color", fmt.Sprintf("%s %v", result.RectangleColor.Name, result.RectangleColor.RGB))

	return mirrorArtifacts(cmd, cfg, result.OutputPath)
}

func mirrorArtifacts(cmd *cobra.Command, cfg *config.Config, paths ...string) error {
	mirror, err := app.NewMirror(cmd.Context(), cfg)
	if err != nil || mirror == nil {
		return err
	}
	defer func() { _ = mirror.Close() }()

	for _, path := range paths {
		uri, err := mirror.Publish(cmd.Context(), path)
		if err != nil {
			return err
		}
		printField("Mirrored", uri)
	}
	return nil
}
