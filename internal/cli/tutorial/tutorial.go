// Package tutorial prints the listctl workflow guide
package tutorial

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/cli/styles"
)

//go:embed tutorial.md
var tutorialContent string

// TutorialCmd returns the tutorial command
func TutorialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tutorial",
		Short: "Output the listctl workflow guide",
		Long: `Output the essential listctl workflow as markdown.

Use --raw in agent hooks (SessionStart, PreCompact) so the guide survives
context compaction unrendered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetBool("raw")
			fmt.Print(Render(raw))
			return nil
		},
	}

	cmd.Flags().Bool("raw", false, "Print the markdown source")

	return cmd
}

// Render returns the guide, styled for the terminal unless raw is set.
// Rendering failures fall back to the markdown source.
func Render(raw bool) string {
	if raw {
		return tutorialContent
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(styles.CardWidth),
	)
	if err != nil {
		return tutorialContent
	}
	out, err := renderer.Render(tutorialContent)
	if err != nil {
		return tutorialContent
	}
	return strings.TrimSpace(out) + "\n"
}
