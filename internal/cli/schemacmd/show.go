package schemacmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/cli/handler"
)

// ShowCmd returns the schema show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the columns of a list",
		Long: `Resolve and print a list's columns.

The schema comes from the first source that has one: the --schema-file
override, the local cache, the service's describe method, list metadata
embedded in an item, or inference from sample items. Every discovered
schema is cached for later calls.

Examples:
  # Human-readable columns
  listctl schema show --list=F0123456

  # JSON output for agents
  listctl schema show --list=F0123456 --json

  # One column id per line
  listctl schema show --list=F0123456 --quiet

  # Skip the cache
  listctl schema show --list=F0123456 --refresh
`,
		Args: cobra.NoArgs,
		RunE: handler.ListCommand(handler.HandlerFunc(runShow)),
	}

	addListFlags(cmd)
	cmd.Flags().Bool("refresh", false, "Ignore the cached schema and rediscover it")

	return cmd
}

func runShow(ctx context.Context, args *handler.Arguments) (any, error) {
	opts, err := handler.NewFlagParser(args.GetCmd()).ParseResolveOptions()
	if err != nil {
		return nil, err
	}

	idx, err := cli.RequireIndex(ctx, args.CLI, opts)
	if err != nil {
		return nil, err
	}
	return cli.NewSchemaView(idx), nil
}
