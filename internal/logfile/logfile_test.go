package logfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_RelativePathAndParentDirectory(t *testing.T) {
	dir := t.TempDir()

	w, err := Open(dir, "logs/grifork.log")
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, filepath.Join(dir, "logs", "grifork.log"), w.Path())
	_, err = os.Stat(w.Path())
	require.NoError(t, err)
}

func TestWriter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grifork.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

	w, err := Open("", path)
	require.NoError(t, err)
	_, err = w.Write([]byte("appended\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\nappended\n", string(data))
}

func TestWriter_ConcurrentWritesKeepLinesWhole(t *testing.T) {
	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "grifork.log")
	w, err := Open("", path)
	require.NoError(t, err)

	// --- Act ---
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := fmt.Fprintf(w, "line %02d %s\n", i, strings.Repeat("x", 64))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	require.NoError(t, w.Close())

	// --- Assert ---
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		assert.Len(t, line, len("line 00 ")+64)
	}
}

func TestOpen_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := Open(dir, "file/grifork.log")

	require.Error(t, err)
}
