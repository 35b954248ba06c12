package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"thumbcraft/internal/app"
	"thumbcraft/internal/description"
	"thumbcraft/pkg/config"
	"thumbcraft/pkg/prompts"
)

var (
	describeSentence string
	describeExamples []string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Write a video description",
	Long: `Write a title, description and hashtags for a video, using earlier videos as
examples of the channel's style.`,
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().StringVarP(&describeSentence, "sentence", "s", "", "One sentence summary of the video")
	describeCmd.Flags().StringSliceVarP(&describeExamples, "example", "e", nil, "Example video id (repeatable)")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	if describeSentence == "" {
		return errors.New("please provide --sentence")
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

	generator, err := app.NewDescriptionGenerator(ctx, cfg, p)
	if err != nil {
		return err
	}

	examples := describeExamples
	if len(examples) == 0 {
		examples = cfg.Description.ExampleVideoIDs
	}

	var doc *description.Document
	err = runWithSpinner("Writing description", func() error {
		doc, err = generator.Generate(ctx, describeSentence, examples)
		return err
	})
	if err != nil {
		return err
	}

	printField("Title", doc.Title)
	printField("Hashtags", doc.Hashtags)
	printField("File", doc.Path)

	return mirrorArtifacts(cmd, cfg, doc.Path)
}
