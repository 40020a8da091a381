package field

import (
	"github.com/spf13/cobra"
)

// FieldCmd returns the field parent command
func FieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Build typed field payloads",
	}

	cmd.AddCommand(BuildCmd())

	return cmd
}
