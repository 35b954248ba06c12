package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"thumbcraft/internal/app"
	"thumbcraft/pkg/config"
)

var paperCmd = &cobra.Command{
	Use:   "paper <url>",
	Short: "Look up an arXiv paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaper,
}

func init() {
	rootCmd.AddCommand(paperCmd)
}

func runPaper(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}

	p, err := app.NewPaperClient(cfg).Lookup(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println(warnStyle.Render("Not an arXiv link: " + args[0]))
		return nil
	}

	fmt.Println(titleStyle.Render(p.Title))
	printField("ID", p.ID)
	printField("Authors", strings.Join(p.Authors, ", "))
	if !p.Published.IsZero() {
		printField("Published", p.Published.Format("2006-01-02"))
	}
	printField("PDF", p.PDFURL)
	fmt.Println()
	fmt.Println(p.Summary)
	return nil
}
