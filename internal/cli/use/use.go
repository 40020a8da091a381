// Package use holds the cli commands that set shell context
// e.g., listctl use ...
package use

import (
	"github.com/spf13/cobra"
)

// UseCmd returns the use parent command
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Manage shell context (default list)",
		Long: `Set context for the current shell session so later commands can
omit their flags.

Examples:
  eval $(listctl use list F0123456)   # Use list F0123456
  eval $(listctl use list --clear)    # Clear list context
  listctl use list --show             # Show current list`,
	}

	cmd.AddCommand(ListCmd())

	return cmd
}
