package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecRunner_CapturesStdout(t *testing.T) {
	skipWithoutShell(t)

	out, err := NewExecRunner().Run(context.Background(), Command{Argv: []string{"echo", "hello"}})

	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.Stdout)
	assert.Zero(t, out.ExitCode)
}

func TestExecRunner_DirAndEnv(t *testing.T) {
	skipWithoutShell(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), nil, 0600))

	out, err := NewExecRunner().Run(context.Background(), Command{
		Argv: []string{"sh", "-c", `ls; printf %s "$GRIFORK_TEST"`},
		Dir:  dir,
		Env:  map[string]string{"GRIFORK_TEST": "yes"},
	})

	require.NoError(t, err)
	assert.Equal(t, "marker\nyes", out.Stdout)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	skipWithoutShell(t)

	out, err := NewExecRunner().Run(context.Background(), Command{Argv: []string{"sh", "-c", "echo oops >&2; exit 3"}})

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %v", err)
	assert.Equal(t, 3, exitErr.ExitCode)
	assert.Contains(t, exitErr.Error(), "oops")
	assert.Equal(t, 3, out.ExitCode)
}

func TestExecRunner_EmptyCommand(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), Command{})
	require.Error(t, err)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), Command{Argv: []string{"grifork-no-such-binary"}})

	require.Error(t, err)
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}
