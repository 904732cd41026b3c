// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScriptName is the conventional file name of a grifork script.
const ScriptName = "Griforkfile"

// ScriptExtension marks additional script files, typically merge overrides.
const ScriptExtension = ".grifork"

// IsScript reports whether name looks like a grifork script.
func IsScript(name string) bool {
	return name == ScriptName || strings.HasSuffix(name, ScriptExtension)
}

// FindScripts expands paths into script files. A file path is returned as
// is; a directory is searched recursively for Griforkfiles and *.grifork
// files. Results are de-duplicated and keep the order of paths, with each
// directory's matches sorted.
func FindScripts(paths ...string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		found, err := FindFiles(path, IsScript)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s: %w", path, err)
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	return out, nil
}

// FindFiles recursively searches rootPath for files whose base name
// satisfies match. Hidden directories are skipped.
func FindFiles(rootPath string, match func(name string) bool) ([]string, error) {
	if match == nil {
		panic("match must not be nil")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != rootPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if match(d.Name()) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
