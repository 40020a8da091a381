package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/spf13/cobra"
)

// CaptureOutput captures stdout during function execution
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()
	stdout, _ := CaptureStreams(t, fn)
	return stdout
}

// CaptureStreams captures stdout and stderr separately during function execution.
// Commands print results to stdout and progress or shell hints to stderr.
func CaptureStreams(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()

	oldStdout, oldStderr := os.Stdout, os.Stderr
	outW, outC := pipe(t)
	errW, errC := pipe(t)
	os.Stdout, os.Stderr = outW, errW

	defer func() {
		os.Stdout, os.Stderr = oldStdout, oldStderr
	}()
	fn()

	_ = outW.Close()
	_ = errW.Close()
	return <-outC, <-errC
}

// pipe returns the writer end of a pipe and a channel yielding everything written to it
func pipe(t *testing.T) (*os.File, <-chan string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	out := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		out <- buf.String()
	}()
	return w, out
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}

	return result
}

// SetupCobraCommand sets up a cobra command with args for testing
func SetupCobraCommand(cmd *cobra.Command, args []string) {
	cmd.SetArgs(args)
	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
}
