package use

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/resolver"
)

// ListCmd returns the use list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [list-id]",
		Short: "Set the list context for the current shell session",
		Long: `Set the current list using the LISTCTL_LIST environment variable.
This command prints shell commands that should be evaluated:

  eval $(listctl use list F0123456)   # Use list F0123456
  eval $(listctl use list --clear)    # Clear list context
  listctl use list --show             # Show current list

The list is checked against the service before it is exported, and its
schema is cached on the way. The --list flag on other commands takes
precedence over this environment variable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUseList,
	}

	cmd.Flags().Bool("clear", false, "Clear the current list context")
	cmd.Flags().Bool("show", false, "Show the current list context")
	cmd.Flags().Bool("dry-run", false, "Show what would be exported without printing shell commands")

	return cmd
}

func runUseList(cmd *cobra.Command, args []string) error {
	formatter := &cli.OutputFormatter{}

	clearFlag, _ := cmd.Flags().GetBool("clear")
	showFlag, _ := cmd.Flags().GetBool("show")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if showFlag {
		current := strings.TrimSpace(os.Getenv(cli.ListEnvVar))
		if current == "" {
			fmt.Println("No list context set")
			fmt.Println("Use 'eval $(listctl use list <list-id>)' to set one")
			return nil
		}
		fmt.Printf("Current list: %s\n", current)
		return nil
	}

	if clearFlag {
		if dryRun {
			fmt.Fprintf(os.Stderr, "Would clear %s\n", cli.ListEnvVar)
			return nil
		}
		fmt.Printf("unset %s\n", cli.ListEnvVar)
		fmt.Fprintf(os.Stderr, "Cleared list context\n")
		return nil
	}

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return cli.HandleError(formatter, fmt.Errorf("%w: list ID required: eval $(listctl use list <list-id>)", cli.ErrUsage))
	}
	listID := strings.TrimSpace(args[0])

	c, release, err := cli.GetCLIFromContext(cmd)
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	defer func() {
		if err := release(); err != nil {
			slog.Error("Error closing CLI", "error", err)
		}
	}()

	idx, err := c.Resolver.Resolve(cmd.Context(), resolver.Options{ListID: listID})
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	columns := 0
	if idx != nil {
		columns = len(idx.Columns())
	}

	if dryRun {
		fmt.Fprintf(os.Stderr, "Would set %s=%s (%d columns)\n", cli.ListEnvVar, listID, columns)
		return nil
	}

	fmt.Printf("export %s=%s\n", cli.ListEnvVar, listID)
	fmt.Fprintf(os.Stderr, "Now using list %s (%d columns)\n", listID, columns)
	return nil
}
