package item

import (
	"github.com/spf13/cobra"
)

// ItemCmd returns the item parent command
func ItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Read and update list items",
	}

	cmd.AddCommand(GetCmd())
	cmd.AddCommand(SetCmd())

	return cmd
}
