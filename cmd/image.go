package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"thumbcraft/internal/app"
	"thumbcraft/internal/imagegen"
	"thumbcraft/internal/storage"
	"thumbcraft/pkg/config"
)

var (
	imagePrompt string
	imageSeed   string
	imageSize   string
	imageOutput string
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Generate an image from a prompt or vary a seed image",
	Long: `Generate a single image. With --prompt the image is created from text;
without it, --seed is sent as the image to vary.`,
	RunE: runImage,
}

func init() {
	imageCmd.Flags().StringVarP(&imagePrompt, "prompt", "p", "", "Text prompt")
	imageCmd.Flags().StringVarP(&imageSeed, "seed", "s", "", "Seed image to vary when no prompt is given")
	imageCmd.Flags().StringVar(&imageSize, "size", "", "Image size, e.g. 512x512")
	imageCmd.Flags().StringVarP(&imageOutput, "output", "o", "", "Output path (default: a new file in the output directory)")
	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	if imagePrompt == "" && imageSeed == "" {
		return errors.New("please provide --prompt or --seed")
	}

	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	client, err := app.NewImageClient(cfg)
	if err != nil {
		return err
	}

	out := imageOutput
	if out == "" {
		out = storage.NewLocalStorage(cfg.Thumbnail.OutputDir, cfg.Thumbnail.TmpDir).OutputPath(".png")
	}

	title := "Generating image"
	if imagePrompt == "" {
		title = "Generating variation"
	}
	err = runWithSpinner(title, func() error {
		return client.Generate(ctx, imagegen.Request{
			Prompt:     imagePrompt,
			SeedPath:   imageSeed,
			Size:       imageSize,
			OutputPath: out,
		})
	})
	if err != nil {
		return err
	}

	printField("Image", out)
	return mirrorArtifacts(cmd, cfg, out)
}
