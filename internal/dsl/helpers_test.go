package dsl

import (
	"context"
	"sync"
	"testing"

	"github.com/vk/grifork/internal/config"
	"github.com/vk/grifork/internal/shell"
	"github.com/vk/grifork/internal/testutil"
)

// fakeRunner records commands instead of running them.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []shell.Command
	stdout string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, cmd shell.Command) (*shell.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd)
	if f.err != nil {
		return nil, f.err
	}
	return &shell.Output{Stdout: f.stdout}, nil
}

func (f *fakeRunner) Calls() []shell.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]shell.Command(nil), f.calls...)
}

// load interprets src with a debug logger and the given options.
func load(t *testing.T, src string, onRemote bool, opts ...Option) (*config.Config, error) {
	t.Helper()
	ctx, _ := testutil.LogContext(t)
	return New(opts...).Load(ctx, "Griforkfile", []byte(src), onRemote)
}

// allHooksScript defines the four master hooks, each returning its own name.
const allHooksScript = `
branches = 4
parallel = in_processes

prepare {
  result = "prepare"
}

local {
  result = "local"
}

remote {
  result = "remote"
}

finish {
  result = "finish"
}
`

const remoteScopedHooks = `
prepare_remote {
  result = "prepare_remote"
}

finish_remote {
  result = "finish_remote"
}
`
