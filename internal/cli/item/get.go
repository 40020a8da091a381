package item

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/cli/handler"
	"github.com/thenoetrevino/listctl/internal/codec"
	"github.com/thenoetrevino/listctl/internal/listservice"
	"github.com/thenoetrevino/listctl/internal/schema"
)

// GetCmd returns the item get subcommand
func GetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch items and print their values",
		Long: `Fetch one or more items and print each column's canonical value.

Items are fetched concurrently. Field shapes seen in the response are folded
into the cached schema, so later commands learn about new columns.

Examples:
  # One item, human-readable
  listctl item get --list=F0123456 --id=Rec01

  # Several items as JSON
  listctl item get --list=F0123456 --id=Rec01 --id=Rec02 --json

  # Just one column's value per item
  listctl item get --list=F0123456 --id=Rec01,Rec02 --column=status --quiet
`,
		Args: cobra.NoArgs,
		RunE: handler.ListCommand(handler.HandlerFunc(runGet)),
	}

	// Required flags
	cmd.Flags().String("list", "", "List ID (uses LISTCTL_LIST env var if not specified)")
	cmd.Flags().StringSlice("id", nil, "Item ID (repeatable, or comma separated)")

	// Optional flags
	cmd.Flags().String("column", "", "Only print this column (id, key or name)")
	cmd.Flags().String("schema-file", "", "Read the schema from a JSON or YAML file instead of discovering it")

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs, or values with --column)")

	return cmd
}

func runGet(ctx context.Context, args *handler.Arguments) (any, error) {
	parser := handler.NewFlagParser(args.GetCmd())
	opts, err := parser.ParseResolveOptions()
	if err != nil {
		return nil, err
	}
	ids, err := parser.ParseIDs("id")
	if err != nil {
		return nil, err
	}
	columnToken := args.GetString("column", "")

	c := args.CLI
	idx, err := c.Resolver.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}

	items, err := listservice.FetchItems(ctx, c.Client, opts.ListID, ids)
	if err != nil {
		return nil, err
	}
	if opts.SchemaPath == "" {
		c.Resolver.ObserveItems(ctx, opts.ListID, items)
	}
	if idx == nil {
		idx = schema.NewIndex(schema.InferFromItems(opts.ListID, items))
	}

	view := cli.ItemsView{ListID: opts.ListID, Items: make([]cli.ItemView, len(items))}
	if columnToken == "" {
		for i, it := range items {
			view.Items[i] = cli.ItemView{ID: it.ID, Values: codec.ExtractAll(idx, it)}
		}
		return view, nil
	}

	col, err := idx.ResolveColumn(columnToken)
	if err != nil {
		return nil, err
	}
	label := col.Key
	if label == "" {
		label = col.ID
	}
	view.Column = label
	for i, it := range items {
		values := map[string]any{}
		if v := codec.Extract(it.Fields, col.ID); v != nil {
			values[label] = v
		} else if v := codec.Extract(it.Fields, col.Key); v != nil {
			values[label] = v
		}
		view.Items[i] = cli.ItemView{ID: it.ID, Values: values}
	}
	return view, nil
}
