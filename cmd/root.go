package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/cli/field"
	"github.com/thenoetrevino/listctl/internal/cli/item"
	"github.com/thenoetrevino/listctl/internal/cli/schemacmd"
	"github.com/thenoetrevino/listctl/internal/cli/styles"
	"github.com/thenoetrevino/listctl/internal/cli/tutorial"
	"github.com/thenoetrevino/listctl/internal/cli/use"
	"github.com/thenoetrevino/listctl/internal/config"
)

// NewRootCmd builds the listctl command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "listctl",
		Short: "listctl - typed access to List Service lists",
		Long: `listctl reads and writes list items by column name, coercing loose input
into each column's typed field payload. Column schemas are discovered from
the service and cached locally.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			theme := config.DefaultTheme()
			if cfg, err := config.Get(); err == nil {
				theme = cfg.Theme
			}
			styles.Init(theme)
		},
	}

	rootCmd.PersistentFlags().String("backend", cli.BackendHTTP, "List Service backend (http, local)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database for the local backend")

	rootCmd.AddCommand(schemacmd.SchemaCmd())
	rootCmd.AddCommand(item.ItemCmd())
	rootCmd.AddCommand(field.FieldCmd())
	rootCmd.AddCommand(use.UseCmd())
	rootCmd.AddCommand(tutorial.TutorialCmd())

	return rootCmd
}

// Execute runs the command tree and returns the process exit code
func Execute(ctx context.Context) int {
	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return cli.ExitSuccess
	}

	// Command failures are reported by the handler; anything else is a usage error from cobra
	var exitErr *cli.ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return cli.ExitUsage
}
