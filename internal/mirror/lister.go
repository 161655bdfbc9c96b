package mirror

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/sabhiram/go-gitignore"
)

var errOtherFilesystem = errors.New("on another filesystem")

// ListTree returns the relative paths of all regular files under root. The
// walk visits entries in lexical order and stays on the filesystem of root.
// Entries that cannot be read are returned as skipped under
// EnumerationLenient and abort the listing under EnumerationStrict.
func ListTree(root string, policy EnumerationPolicy, ig *ignore.GitIgnore) (Snapshot, []SkippedEntry, error) {
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return Snapshot{}, nil, &EnumerationError{Path: root, Err: err}
	}
	rootDevice, err := deviceID(walkRoot)
	if err != nil {
		return Snapshot{}, nil, &EnumerationError{Path: root, Err: err}
	}

	files := NewSnapshot()
	var skipped []SkippedEntry

	err = filepath.WalkDir(walkRoot, func(currentPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if currentPath == walkRoot {
				return walkErr
			}
			if policy == EnumerationStrict {
				return walkErr
			}
			skipped = append(skipped, SkippedEntry{Path: currentPath, Err: walkErr})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(walkRoot, currentPath)
		if relErr != nil {
			return relErr
		}

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if shouldIgnore(rel, true, ig) {
				return filepath.SkipDir
			}
			dev, devErr := deviceID(currentPath)
			if devErr != nil {
				if policy == EnumerationStrict {
					return devErr
				}
				skipped = append(skipped, SkippedEntry{Path: currentPath, Err: devErr})
				return filepath.SkipDir
			}
			if dev != rootDevice {
				skipped = append(skipped, SkippedEntry{Path: currentPath, Err: errOtherFilesystem})
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if shouldIgnore(rel, false, ig) {
			return nil
		}
		files.Add(filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return Snapshot{}, skipped, &EnumerationError{Path: root, Err: fmt.Errorf("walk: %w", err)}
	}
	return files, skipped, nil
}
