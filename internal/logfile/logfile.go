// Package logfile opens the log destination named by a script's log
// descriptor. Writers append to the file and may be shared by goroutines
// and by processes running hooks from the same script.
package logfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// Writer appends to a log file. Each Write holds an exclusive advisory lock
// on a sibling ".lock" file so concurrent processes do not interleave lines.
type Writer struct {
	mu   sync.Mutex
	file *os.File
	lock *flock.Flock
	path string
}

// Open opens path for appending, creating it and its parent directory when
// missing. Relative paths are resolved against baseDir.
func Open(baseDir, path string) (*Writer, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &Writer{
		file: f,
		lock: flock.New(path + ".lock"),
		path: path,
	}, nil
}

// Path returns the resolved path of the log file.
func (w *Writer) Path() string {
	return w.path
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.lock.Lock(); err != nil {
		return 0, fmt.Errorf("failed to acquire lock on %s: %w", w.path, err)
	}
	defer w.lock.Unlock()

	return w.file.Write(p)
}

// Close closes the log file and releases the lock file handle.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	lockErr := w.lock.Close()
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file %s: %w", w.path, err)
	}
	if lockErr != nil {
		return fmt.Errorf("failed to release lock on %s: %w", w.path, lockErr)
	}
	return nil
}
