package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"thumbcraft/internal/app"
	"thumbcraft/internal/youtube"
	"thumbcraft/pkg/config"
)

var videoCmd = &cobra.Command{
	Use:   "video <id>",
	Short: "Show the title, sentence and hashtags of a video",
	Args:  cobra.ExactArgs(1),
	RunE:  runVideo,
}

func init() {
	rootCmd.AddCommand(videoCmd)
}

func runVideo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	client, err := app.NewVideoClient(ctx, cfg)
	if err != nil {
		return err
	}

	v, err := client.VideoInfo(ctx, args[0])
	if err != nil {
		return err
	}
	if v == nil {
		fmt.Println(warnStyle.Render("No video found for " + args[0]))
		return nil
	}

	printField("Title", v.Title)
	printField("Sentence", youtube.Sentence(v.Description))
	printField("Hashtags", youtube.Hashtags(v.Description))
	return nil
}
