package field

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/cli/handler"
	"github.com/thenoetrevino/listctl/internal/codec"
)

// BuildCmd returns the field build subcommand
func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <column> <value>",
		Short: "Print the typed payload for a value without writing it",
		Long: `Coerce a value to the column's type and print the resulting payload.
Nothing is written to the list.

Examples:
  listctl field build --list=F0123456 status Done
  listctl field build --list=F0123456 rating 4 --json
  PAYLOAD=$(listctl field build --list=F0123456 link "https://x.dev|docs" --quiet)
`,
		Args: cobra.ExactArgs(2),
		RunE: handler.ListCommand(handler.HandlerFunc(runBuild)),
	}

	cmd.Flags().String("list", "", "List ID (uses LISTCTL_LIST env var if not specified)")
	cmd.Flags().String("schema-file", "", "Read the schema from a JSON or YAML file instead of discovering it")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (compact payload)")

	return cmd
}

func runBuild(ctx context.Context, args *handler.Arguments) (any, error) {
	opts, err := handler.NewFlagParser(args.GetCmd()).ParseResolveOptions()
	if err != nil {
		return nil, err
	}

	c := args.CLI
	idx, err := cli.RequireIndex(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	col, err := idx.ResolveColumn(args.Args[0])
	if err != nil {
		return nil, err
	}

	field, err := c.Builder.Build(ctx, col, args.Args[1])
	if err != nil {
		return nil, err
	}
	return cli.FieldView{
		ListID: opts.ListID,
		Column: cli.NewColumnView(col),
		Field:  field,
		Value:  codec.ExtractField(field),
	}, nil
}
