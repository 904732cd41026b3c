// Package shell runs the commands declared by hook bodies.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/vk/grifork/internal/ctxlog"
)

// Command is a single process invocation.
type Command struct {
	Argv []string
	Dir  string
	Env  map[string]string
}

// String renders the argv for logs.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// Output is what a finished command produced.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ExitError is returned when a command exits with a non-zero status.
type ExitError struct {
	Command  Command
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %q exited with status %d", e.Command.String(), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// ExecRunner runs commands as local child processes.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts cmd, waits for it and captures its output. The process is
// killed when ctx is cancelled.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Output, error) {
	logger := ctxlog.FromContext(ctx)
	if len(cmd.Argv) == 0 {
		return nil, errors.New("command is empty")
	}

	c := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), envList(cmd.Env)...)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	logger.Debug("Starting command.", "command", cmd.String(), "dir", cmd.Dir)
	err := c.Run()
	out := &Output{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		return out, &ExitError{Command: cmd, ExitCode: out.ExitCode, Stderr: out.Stderr}
	default:
		return out, fmt.Errorf("failed to run command %q: %w", cmd.String(), err)
	}

	logger.Debug("Command finished.", "command", cmd.String(), "stdout_bytes", stdout.Len())
	return out, nil
}

// envList renders env as sorted KEY=VALUE pairs.
func envList(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
