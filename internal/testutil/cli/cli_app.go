package cli

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/testutil"
)

// ExecuteCLICommand executes a CLI command with a test CLI instance
// injected through the context, so commands use the test service and cache
func ExecuteCLICommand(t *testing.T, testCLI *cli.CLI, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	if testCLI == nil {
		t.Fatal("testCLI cannot be nil - SetupCLITest must be called first")
	}

	return ExecuteCLICommandWithContext(t, context.Background(), testCLI, cmd, args)
}

// ExecuteCLICommandWithContext executes a CLI command with a specific context and test CLI
func ExecuteCLICommandWithContext(t *testing.T, ctx context.Context, testCLI *cli.CLI, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	testutil.SetupCobraCommand(cmd, args)

	ctxWithCLI := cli.WithCLI(ctx, testCLI)
	cmd.SetContext(ctxWithCLI)

	// Capture output and execute
	var output string
	var executeErr error

	output = testutil.CaptureOutput(t, func() {
		executeErr = cmd.ExecuteContext(ctxWithCLI)
	})

	return output, executeErr
}
