package schemacmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/cli/handler"
	"github.com/thenoetrevino/listctl/internal/models"
	"github.com/thenoetrevino/listctl/internal/schema"
)

// ColumnCmd returns the schema column subcommand
func ColumnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column [id|key|name]",
		Short: "Resolve one column reference",
		Long: `Resolve a column reference to its definition.

The reference matches an exact column id first, then a key, then a display
name; key and name matching ignore case.

With --type and no reference, the list must have exactly one column of that
type. The role names user, date, rating and checkbox also match their todo
variants (todo_assignee, todo_due_date, priority, todo_completed). With both,
the referenced column must be of the given type.

Examples:
  listctl schema column --list=F0123456 status
  listctl schema column --list=F0123456 "Due Date" --json

  # The list's only date column
  listctl schema column --list=F0123456 --type=date

  # Capture the column id
  COL=$(listctl schema column --list=F0123456 status --quiet)
`,
		Args: cobra.RangeArgs(0, 1),
		RunE: handler.ListCommand(handler.HandlerFunc(runColumn)),
	}

	addListFlags(cmd)
	cmd.Flags().String("type", "", "Pick the column by type: a column type or one of user, date, rating, checkbox")

	return cmd
}

func runColumn(ctx context.Context, args *handler.Arguments) (any, error) {
	parser := handler.NewFlagParser(args.GetCmd())
	opts, err := parser.ParseResolveOptions()
	if err != nil {
		return nil, err
	}
	typeName, err := parser.ParseStringOptional("type")
	if err != nil {
		return nil, err
	}

	token := ""
	if len(args.Args) > 0 {
		token = args.Args[0]
	}

	var types []models.ColumnType
	if typeName != "" {
		var ok bool
		if types, ok = models.ColumnTypesFor(typeName); !ok {
			return nil, fmt.Errorf("%w: unknown column type %q", cli.ErrUsage, typeName)
		}
	} else if token == "" {
		return nil, fmt.Errorf("%w: pass a column reference or --type", cli.ErrUsage)
	}

	idx, err := cli.RequireIndex(ctx, args.CLI, opts)
	if err != nil {
		return nil, err
	}

	if types == nil {
		col, err := idx.ResolveColumn(token)
		if err != nil {
			return nil, err
		}
		return cli.NewColumnView(col), nil
	}

	col, err := idx.ResolveRoleColumn(token, types...)
	if err != nil {
		return nil, err
	}
	if !col.Type.In(types...) {
		return nil, fmt.Errorf("%w: column %q is %s, not %s", schema.ErrColumnNotFound, col.DisplayName(), col.Type, typeName)
	}
	return cli.NewColumnView(col), nil
}
