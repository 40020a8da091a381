package tutorial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/listctl/internal/testutil"
)

func TestRender(t *testing.T) {
	t.Parallel()

	assert.Equal(t, tutorialContent, Render(true))

	rendered := Render(false)
	assert.Contains(t, rendered, "Pick a list")
	assert.Contains(t, rendered, "Exit codes")
}

func TestTutorialCmd_Raw(t *testing.T) {
	cmd := TutorialCmd()
	testutil.SetupCobraCommand(cmd, []string{"--raw"})

	var err error
	output := testutil.CaptureOutput(t, func() {
		err = cmd.Execute()
	})

	require.NoError(t, err)
	assert.Contains(t, output, "# listctl workflow")
	assert.Contains(t, output, "eval $(listctl use list F0123456)")
}
