package dsl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/grifork/internal/config"
)

func TestLoad_OptionsBags(t *testing.T) {
	testCases := []struct {
		name   string
		script string
		check  func(t *testing.T, cfg *config.Config)
	}{
		{
			name:   "log as object attribute",
			script: `log = { file = "grifork.log" }`,
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.Some(config.Log{File: "grifork.log"}), cfg.Log)
			},
		},
		{
			name:   "log as block",
			script: "log {\n  file  = \"tmp/grifork.log\"\n  level = \"debug\"\n}\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.Some(config.Log{File: "tmp/grifork.log", Level: "debug"}), cfg.Log)
			},
		},
		{
			name:   "ssh block",
			script: "ssh {\n  user    = \"deploy\"\n  port    = 2222\n  keys    = [\"~/.ssh/id_ed25519\"]\n  timeout = 30\n}\n",
			check: func(t *testing.T, cfg *config.Config) {
				want := config.SSH{User: "deploy", Port: 2222, Keys: []string{"~/.ssh/id_ed25519"}, Timeout: 30}
				assert.Equal(t, config.Some(want), cfg.SSH)
			},
		},
		{
			name:   "rsync object",
			script: `rsync = { delete = true, bwlimit = 500, excludes = [".git", "tmp"], rsh = "ssh -p 2222" }`,
			check: func(t *testing.T, cfg *config.Config) {
				want := config.Rsync{Delete: true, Bwlimit: 500, Excludes: []string{".git", "tmp"}, Rsh: "ssh -p 2222"}
				assert.Equal(t, config.Some(want), cfg.Rsync)
			},
		},
		{
			name:   "empty ssh block is still set",
			script: "ssh {\n}\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.True(t, cfg.SSH.Set)
				assert.Equal(t, config.SSH{}, cfg.SSH.Value)
			},
		},
		{
			name:   "later log block overwrites",
			script: "log {\n  file = \"a.log\"\n}\n\nlog {\n  file = \"b.log\"\n}\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "b.log", cfg.Log.Value.File)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := load(t, tc.script, false)
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestLoad_MalformedOptions(t *testing.T) {
	testCases := []struct {
		name          string
		script        string
		wantDirective string
		wantReason    string
	}{
		{
			name:          "unknown log key",
			script:        "log {\n  path = \"x.log\"\n}\n",
			wantDirective: "log",
			wantReason:    `unknown option "path"`,
		},
		{
			name:          "missing log file",
			script:        "log {\n  level = \"info\"\n}\n",
			wantDirective: "log",
			wantReason:    `missing required option "file"`,
		},
		{
			name:          "log as plain string",
			script:        `log = "grifork.log"`,
			wantDirective: "log",
			wantReason:    "expected an options object, got string",
		},
		{
			name:          "log as null",
			script:        `log = null`,
			wantDirective: "log",
			wantReason:    "got null",
		},
		{
			name:          "null log file",
			script:        `log = { file = null }`,
			wantDirective: "log",
			wantReason:    "must not be null",
		},
		{
			name:          "nested block",
			script:        "log {\n  file = \"x.log\"\n  rotate {\n  }\n}\n",
			wantDirective: "log",
			wantReason:    `nested "rotate" block`,
		},
		{
			name:          "wrongly typed ssh port",
			script:        `ssh = { port = "abc" }`,
			wantDirective: "ssh",
			wantReason:    `option "port"`,
		},
		{
			name:          "rsync excludes not a list",
			script:        `rsync = { excludes = { a = 1 } }`,
			wantDirective: "rsync",
			wantReason:    `option "excludes"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := load(t, tc.script, false)

			require.Nil(t, cfg)
			var optErr *MalformedOptionsError
			require.True(t, errors.As(err, &optErr), "expected *MalformedOptionsError, got %v", err)
			assert.Equal(t, tc.wantDirective, optErr.Directive)
			assert.Contains(t, optErr.Reason, tc.wantReason)
		})
	}
}
