package schemacmd

import (
	"github.com/spf13/cobra"
)

// SchemaCmd returns the schema parent command
func SchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Discover and inspect list schemas",
	}

	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(RefreshCmd())
	cmd.AddCommand(ColumnCmd())

	return cmd
}

// addListFlags registers the flags shared by every schema subcommand
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().String("list", "", "List ID (uses LISTCTL_LIST env var if not specified)")
	cmd.Flags().String("schema-file", "", "Read the schema from a JSON or YAML file instead of discovering it")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")
}
