package cli

import (
	"testing"

	"github.com/thenoetrevino/listctl/internal/cli"
	"github.com/thenoetrevino/listctl/internal/config"
	"github.com/thenoetrevino/listctl/internal/listservice/local"
	"github.com/thenoetrevino/listctl/internal/testutil"
)

// SetupCLITest creates an in-memory local service and a CLI wired to it with
// a temp-dir schema cache.
// This function is only for CLI tests and is isolated in a separate package
// to avoid import cycles with the cli package.
func SetupCLITest(t *testing.T) (*local.Service, *cli.CLI) {
	t.Helper()
	svc := testutil.SetupTestService(t)
	store := testutil.SetupTestStore(t)
	return svc, cli.New(config.Default(), svc, store, nil)
}
