package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"thumbcraft/pkg/config"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove intermediate thumbnail files",
	Long:  `Delete the scratch directory that keeps foregrounds, cutouts and resized backgrounds.`,
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dir := cfg.Thumbnail.TmpDir
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		fmt.Println(infoStyle.Render("Nothing to clean"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Removed %d file(s) from %s", len(entries), dir)))
	return nil
}
