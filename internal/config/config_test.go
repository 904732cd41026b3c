package config

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/grifork/internal/task"
)

// taskIdentity compares tasks by pointer; a merged slot must be the very
// task the source Config held.
var taskIdentity = cmp.Comparer(func(a, b *task.Task) bool { return a == b })

func namedTask(name string) *task.Task {
	return task.New(name, func(context.Context, ...any) (any, error) { return name, nil })
}

func TestOpt(t *testing.T) {
	var unset Opt[int]
	v, ok := unset.Get()
	assert.False(t, ok)
	assert.Zero(t, v)

	set := Some(0)
	v, ok = set.Get()
	assert.True(t, ok, "a zero value must still count as set")
	assert.Equal(t, 0, v)

	assert.Equal(t, set, unset.Override(set))
	assert.Equal(t, set, set.Override(unset))
}

func TestValidSymbol(t *testing.T) {
	for _, s := range []string{"in_threads", "in-processes", "in.threads", "Grifork2", ":mode"} {
		assert.True(t, ValidSymbol(s), s)
	}
	for _, s := range []string{"", " ", "in processes", "in\tthreads", "mode\n"} {
		assert.False(t, ValidSymbol(s), "%q", s)
	}
}

func TestMerge_OverridesOnlySetFields(t *testing.T) {
	// --- Arrange ---
	base := New(false)
	base.Mode = Some(ModeStandalone)
	base.Branches = Some(2)
	base.Hosts = Some([]string{})
	base.LocalTask = namedTask("local")

	override := New(false)
	override.Mode = Some(ModeGrifork)
	override.Hosts = Some([]string{"alpha", "beta", "gamma"})

	// --- Act ---
	merged := Merge(base, override)

	// --- Assert ---
	want := &Config{
		Branches:  Some(2),
		Mode:      Some(ModeGrifork),
		Hosts:     Some([]string{"alpha", "beta", "gamma"}),
		LocalTask: base.LocalTask,
	}
	if diff := cmp.Diff(want, merged, taskIdentity); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := New(false)
	base.Hosts = Some([]string{"web1"})
	base.Branches = Some(4)

	override := New(false)
	override.Branches = Some(8)

	merged := Merge(base, override)
	merged.Hosts.Value[0] = "changed"

	assert.Equal(t, 4, base.Branches.Value)
	assert.Equal(t, []string{"web1"}, base.Hosts.Value)
	assert.Equal(t, 8, merged.Branches.Value)
}

func TestMerge_TaskSlots(t *testing.T) {
	base := New(true)
	base.PrepareTask = namedTask("prepare_remote")
	base.LocalTask = namedTask("remote")
	base.FinishTask = namedTask("finish_remote")

	override := New(true)
	override.LocalTask = namedTask("remote-override")

	merged := Merge(base, override)

	assert.Same(t, base.PrepareTask, merged.PrepareTask)
	assert.Same(t, override.LocalTask, merged.LocalTask)
	assert.Nil(t, merged.RemoteTask)
	assert.Same(t, base.FinishTask, merged.FinishTask)
	assert.True(t, merged.OnRemote, "merge keeps the base role")
}

func TestMerge_NilOverride(t *testing.T) {
	base := New(false)
	base.Branches = Some(3)

	merged := Merge(base, nil)

	require.NotSame(t, base, merged)
	assert.Equal(t, Some(3), merged.Branches)
}

func TestConfig_Task(t *testing.T) {
	cfg := New(false)
	cfg.RemoteTask = namedTask("remote")

	tk, ok := cfg.Task("remote")
	assert.True(t, ok)
	assert.Same(t, cfg.RemoteTask, tk)

	_, ok = cfg.Task("prepare")
	assert.False(t, ok)

	_, ok = cfg.Task("prepare_remote")
	assert.False(t, ok, "only the four resolved slots are addressable")
}

func TestConfig_Snapshot(t *testing.T) {
	cfg := New(false)
	cfg.Branches = Some(2)
	cfg.Hosts = Some([]string{})
	cfg.FinishTask = namedTask("finish")

	snap := cfg.Snapshot()

	require.NotNil(t, snap.Branches)
	assert.Equal(t, 2, *snap.Branches)
	require.NotNil(t, snap.Hosts, "an explicitly empty host list is still set")
	assert.Empty(t, *snap.Hosts)
	assert.Nil(t, snap.Parallel)
	assert.Nil(t, snap.Log)
	assert.Equal(t, TaskSet{Finish: true}, snap.Tasks)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		configure func(c *Config)
		wantField string
	}{
		{
			name:      "empty config is valid",
			configure: func(*Config) {},
		},
		{
			name: "fully populated config is valid",
			configure: func(c *Config) {
				c.Branches = Some(1)
				c.Parallel = Some(InProcesses)
				c.Log = Some(Log{File: "grifork.log", Level: "debug"})
				c.Hosts = Some([]string{"web1", "web1"})
				c.Mode = Some(Symbol("custom.mode-2"))
				c.SSH = Some(SSH{User: "deploy", Port: 22, Keys: []string{"~/.ssh/id_ed25519"}})
				c.Rsync = Some(Rsync{Delete: true, Bwlimit: 1024, Excludes: []string{".git"}})
			},
		},
		{
			name:      "zero branches",
			configure: func(c *Config) { c.Branches = Some(0) },
			wantField: "branches",
		},
		{
			name:      "negative branches",
			configure: func(c *Config) { c.Branches = Some(-3) },
			wantField: "branches",
		},
		{
			name:      "malformed parallel symbol",
			configure: func(c *Config) { c.Parallel = Some(Symbol("in processes")) },
			wantField: "parallel",
		},
		{
			name:      "empty mode symbol",
			configure: func(c *Config) { c.Mode = Some(Symbol("")) },
			wantField: "mode",
		},
		{
			name:      "empty host entry",
			configure: func(c *Config) { c.Hosts = Some([]string{"web1", ""}) },
			wantField: "hosts",
		},
		{
			name:      "log without file",
			configure: func(c *Config) { c.Log = Some(Log{}) },
			wantField: "log.file",
		},
		{
			name:      "log with unknown level",
			configure: func(c *Config) { c.Log = Some(Log{File: "x.log", Level: "trace"}) },
			wantField: "log.level",
		},
		{
			name:      "ssh port out of range",
			configure: func(c *Config) { c.SSH = Some(SSH{Port: 70000}) },
			wantField: "ssh.port",
		},
		{
			name:      "negative rsync bwlimit",
			configure: func(c *Config) { c.Rsync = Some(Rsync{Bwlimit: -1}) },
			wantField: "rsync.bwlimit",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New(false)
			tc.configure(cfg)

			err := cfg.Validate()

			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected *ValidationError, got %v", err)
			assert.Contains(t, vErr.Error(), tc.wantField)
		})
	}
}
