package use

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/testutil"
	clitest "github.com/thenoetrevino/listctl/internal/testutil/cli"
)

func TestUseList(t *testing.T) {
	svc, testCLI := clitest.SetupCLITest(t)
	testutil.CreateTestList(t, svc, "F1", testutil.StatusSchema())

	t.Run("Exports known list", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, testCLI, ListCmd(), []string{"F1"})

		require.NoError(t, err)
		assert.Equal(t, "export LISTCTL_LIST=F1\n", output)

		cached, err := testCLI.Cache.Load("F1")
		require.NoError(t, err)
		assert.NotNil(t, cached)
	})

	t.Run("Dry run prints nothing to stdout", func(t *testing.T) {
		cmd := ListCmd()
		testutil.SetupCobraCommand(cmd, []string{"F1", "--dry-run"})

		var err error
		stdout, stderr := testutil.CaptureStreams(t, func() {
			err = cmd.ExecuteContext(cli.WithCLI(context.Background(), testCLI))
		})

		require.NoError(t, err)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "Would set LISTCTL_LIST=F1 (4 columns)")
	})

	t.Run("Clear", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, testCLI, ListCmd(), []string{"--clear"})

		require.NoError(t, err)
		assert.Equal(t, "unset LISTCTL_LIST\n", output)
	})

	t.Run("Show", func(t *testing.T) {
		t.Setenv(cli.ListEnvVar, "F9")
		output, err := clitest.ExecuteCLICommand(t, testCLI, ListCmd(), []string{"--show"})

		require.NoError(t, err)
		assert.Equal(t, "Current list: F9\n", output)
	})

	t.Run("Unknown list", func(t *testing.T) {
		output, err := clitest.ExecuteCLICommand(t, testCLI, ListCmd(), []string{"NOPE"})

		require.Error(t, err)
		assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
		assert.NotContains(t, output, "export")
	})

	t.Run("Missing id", func(t *testing.T) {
		_, err := clitest.ExecuteCLICommand(t, testCLI, ListCmd(), nil)

		require.Error(t, err)
		assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
	})
}
