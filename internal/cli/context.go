package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type contextKey string

const cliKey contextKey = "cli"

// WithCLI returns a context carrying c. Commands executed under it use c
// instead of building their own, and never close it.
func WithCLI(ctx context.Context, c *CLI) context.Context {
	return context.WithValue(ctx, cliKey, c)
}

// GetCLIFromContext returns the injected CLI, or builds one from the command's
// --backend and --db flags. The returned release func must be deferred.
func GetCLIFromContext(cmd *cobra.Command) (*CLI, func() error, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if c, ok := ctx.Value(cliKey).(*CLI); ok && c != nil {
		return c, func() error { return nil }, nil
	}

	backend, _ := cmd.Flags().GetString("backend")
	dbPath, _ := cmd.Flags().GetString("db")
	c, err := NewCLI(ctx, Options{Backend: backend, DBPath: dbPath})
	if err != nil {
		return nil, nil, err
	}
	return c, c.Close, nil
}
