package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		in      Config
		want    *Config
		wantErr string
	}{
		{
			name: "valid",
			in:   Config{LogFormat: "json", LogLevel: "debug", OnRemote: true},
			want: &Config{LogFormat: "json", LogLevel: "debug", OnRemote: true},
		},
		{
			name: "case is normalised",
			in:   Config{LogFormat: "TEXT", LogLevel: "Warn"},
			want: &Config{LogFormat: "text", LogLevel: "warn"},
		},
		{
			name:    "bad format",
			in:      Config{LogFormat: "xml", LogLevel: "info"},
			wantErr: `invalid LogFormat "xml"`,
		},
		{
			name:    "bad level",
			in:      Config{LogFormat: "text", LogLevel: "trace"},
			wantErr: `invalid LogLevel "trace"`,
		},
		{
			name:    "empty",
			in:      Config{},
			wantErr: "invalid LogFormat",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewConfig(tc.in)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
