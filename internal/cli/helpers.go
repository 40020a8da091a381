package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/resolver"
	"github.com/thenoetrevino/listctl/internal/schema"
)

// ListEnvVar is consulted when --list is omitted
const ListEnvVar = "LISTCTL_LIST"

// GetListID returns the list id from the --list flag or LISTCTL_LIST
func GetListID(cmd *cobra.Command) (string, error) {
	listID, _ := cmd.Flags().GetString("list")
	listID = strings.TrimSpace(listID)
	if listID == "" {
		listID = strings.TrimSpace(os.Getenv(ListEnvVar))
	}
	if listID == "" {
		return "", fmt.Errorf("%w: --list is required (or set %s)", ErrUsage, ListEnvVar)
	}
	return listID, nil
}

// RequireIndex resolves the schema and fails with ErrNoSchema when no source
// produced one, for commands that cannot work without columns
func RequireIndex(ctx context.Context, c *CLI, opts resolver.Options) (*schema.Index, error) {
	idx, err := c.Resolver.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSchema, opts.ListID)
	}
	return idx, nil
}
