package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"thumbcraft/internal/app"
	"thumbcraft/pkg/config"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "List artifacts mirrored to the GCS bucket",
	RunE:  runMirror,
}

func init() {
	rootCmd.AddCommand(mirrorCmd)
}

func runMirror(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	mirror, err := app.NewMirror(ctx, cfg)
	if err != nil {
		return err
	}
	if mirror == nil {
		fmt.Println(warnStyle.Render("GCS mirror disabled, set gcs.enabled in config.yaml"))
		return nil
	}
	defer func() { _ = mirror.Close() }()

	objects, err := mirror.List(ctx)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		fmt.Println(infoStyle.Render("No mirrored artifacts"))
		return nil
	}
	for _, name := range objects {
		fmt.Println(name)
	}
	return nil
}
