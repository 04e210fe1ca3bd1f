package driver

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoSources is returned when a pass is started without any input file.
var ErrNoSources = errors.New("no source files found")

// DefaultExtensions lists the suffixes picked up from directories.
var DefaultExtensions = []string{".cs"}

// ListSources expands every root into a sorted, de-duplicated file list.
// Directories are walked recursively; hidden directories and the skip
// directories (typically the output directory) are not entered. Files given
// explicitly are kept regardless of their extension.
func ListSources(roots, exts []string, skip ...string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				if abs, absErr := filepath.Abs(path); absErr == nil {
					if _, ok := skipped[abs]; ok {
						return filepath.SkipDir
					}
				}
				return nil
			}
			if hasExtension(path, exts) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func hasExtension(path string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
