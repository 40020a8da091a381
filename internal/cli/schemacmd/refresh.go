package schemacmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/cli/handler"
	"github.com/thenoetrevino/listctl/internal/resolver"
)

// RefreshCmd returns the schema refresh subcommand
func RefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Rediscover a list's schema and update the cache",
		Long: `Rediscover a list's schema, bypassing the cache.

Service-confirmed schemas replace the cached one; an inferred schema is
merged into it, so columns the service confirmed earlier keep their types.
--reset deletes the cached entry first, so an inferred schema starts clean.

Examples:
  listctl schema refresh --list=F0123456
  listctl schema refresh --list=F0123456 --json

  # Drop stale inferred columns
  listctl schema refresh --list=F0123456 --reset
`,
		Args: cobra.NoArgs,
		RunE: handler.ListCommand(handler.HandlerFunc(runRefresh)),
	}

	cmd.Flags().String("list", "", "List ID (uses LISTCTL_LIST env var if not specified)")
	cmd.Flags().Bool("reset", false, "Delete the cached schema before rediscovering it")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")

	return cmd
}

func runRefresh(ctx context.Context, args *handler.Arguments) (any, error) {
	parser := handler.NewFlagParser(args.GetCmd())
	listID, err := parser.ParseListID()
	if err != nil {
		return nil, err
	}
	reset, err := parser.ParseBool("reset")
	if err != nil {
		return nil, err
	}

	if reset && args.CLI.Cache != nil {
		if err := args.CLI.Cache.Delete(listID); err != nil {
			return nil, fmt.Errorf("failed to reset schema cache: %w", err)
		}
		args.CLI.Logger.Debug("reset schema cache", "list_id", listID)
	}

	idx, err := cli.RequireIndex(ctx, args.CLI, resolver.Options{ListID: listID, ForceRefresh: true})
	if err != nil {
		return nil, err
	}
	return cli.NewSchemaView(idx), nil
}
