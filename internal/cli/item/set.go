package item

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/cli/handler"
	"github.com/thenoetrevino/listctl/internal/codec"
	"github.com/thenoetrevino/listctl/internal/listservice"
)

// SetCmd returns the item set subcommand
func SetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <column> <value>",
		Short: "Set one column of an item",
		Long: `Coerce a value to the column's type and write it to an item.

Select values match option values or labels; users match ids, emails,
display names or names; dates use YYYY-MM-DD; checkboxes accept
completed, done, true, yes or 1. Links take "url|label".

Examples:
  listctl item set --list=F0123456 --id=Rec01 status "Done, Blocked"
  listctl item set --list=F0123456 --id=Rec01 owner ada@example.com --json
  listctl item set --list=F0123456 --id=Rec01 due 2025-01-31 --quiet
`,
		Args: cobra.ExactArgs(2),
		RunE: handler.ListCommand(handler.HandlerFunc(runSet)),
	}

	// Required flags
	cmd.Flags().String("list", "", "List ID (uses LISTCTL_LIST env var if not specified)")
	cmd.Flags().String("id", "", "Item ID (required)")

	// Optional flags
	cmd.Flags().String("schema-file", "", "Read the schema from a JSON or YAML file instead of discovering it")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (field payload)")

	return cmd
}

func runSet(ctx context.Context, args *handler.Arguments) (any, error) {
	opts, err := handler.NewFlagParser(args.GetCmd()).ParseResolveOptions()
	if err != nil {
		return nil, err
	}
	itemID, err := args.RequireString("id")
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
	if err := listservice.UpdateItemField(ctx, c.Client, opts.ListID, itemID, field); err != nil {
		return nil, err
	}

	c.Logger.Info("item field updated", "list_id", opts.ListID, "item_id", itemID, "column_id", col.ID)
	return cli.FieldView{
		ListID:  opts.ListID,
		ItemID:  itemID,
		Column:  cli.NewColumnView(col),
		Field:   field,
		Value:   codec.ExtractField(field),
		Written: true,
	}, nil
}
