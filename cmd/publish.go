package cmd

import (
	"github.com/spf13/cobra"

	"thumbcraft/internal/app"
	"thumbcraft/pkg/config"
)

var (
	publishVideo       string
	publishThumbnail   string
	publishDescription string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Apply a thumbnail and description to a YouTube video",
	Long:  `Upload a generated thumbnail and description file to an existing video. Requires "thumbcraft auth youtube".`,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishVideo, "video", "", "YouTube video id")
	publishCmd.Flags().StringVar(&publishThumbnail, "thumbnail", "", "Thumbnail image path")
	publishCmd.Flags().StringVar(&publishDescription, "description", "", "Description file path")
	_ = publishCmd.MarkFlagRequired("video")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	publisher, err := app.NewPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = publisher.Close() }()

	var res *app.PublishResult
	err = runWithSpinner("Publishing to YouTube", func() error {
		res, err = publisher.Publish(ctx, app.PublishRequest{
			VideoID:         publishVideo,
			ThumbnailPath:   publishThumbnail,
			DescriptionPath: publishDescription,
		})
		return err
	})
	if err != nil {
		return err
	}

	if res.Thumbnail {
		printField("Thumbnail", publishThumbnail)
	}
	if res.Title != "" {
		printField("Title", res.Title)
	}
	for _, uri := range res.Mirrored {
		printField("Mirrored", uri)
	}
	return nil
}
