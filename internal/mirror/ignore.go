package mirror

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/sabhiram/go-gitignore"
)

func shouldIgnore(rel string, isDir bool, ig *ignore.GitIgnore) bool {
	if ig == nil {
		return false
	}
	p := filepath.ToSlash(rel)
	if isDir {
		p += "/"
	}
	return ig.MatchesPath(p)
}

// LoadIgnoreMatcher compiles the patterns of an ignore file followed by extra
// patterns. An empty path or a missing file contributes no patterns.
func LoadIgnoreMatcher(path string, extra ...string) (*ignore.GitIgnore, error) {
	if path == "" {
		return ignore.CompileIgnoreLines(extra...), nil
	}
	ig, err := ignore.CompileIgnoreFileAndLines(path, extra...)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ignore.CompileIgnoreLines(extra...), nil
		}
		return nil, err
	}
	return ig, nil
}
