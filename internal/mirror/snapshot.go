package mirror

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Snapshot is the set of relative, slash-separated paths of the regular files
// found under a root during one pass. The zero value is not usable; build one
// with NewSnapshot.
type Snapshot struct {
	paths mapset.Set[string]
}

// NewSnapshot returns a snapshot holding paths.
func NewSnapshot(paths ...string) Snapshot {
	return Snapshot{paths: mapset.NewThreadUnsafeSet(paths...)}
}

// Add records rel in the snapshot.
func (s Snapshot) Add(rel string) {
	s.paths.Add(rel)
}

// Contains reports whether rel is in the snapshot.
func (s Snapshot) Contains(rel string) bool {
	return s.paths.Contains(rel)
}

// Len returns the number of paths.
func (s Snapshot) Len() int {
	return s.paths.Cardinality()
}

// ToSlice returns the paths in lexical order.
func (s Snapshot) ToSlice() []string {
	return sortedPaths(s.paths)
}

// SkippedEntry is an entry the lister did not descend into or could not read.
type SkippedEntry struct {
	Path string
	Err  error
}

func sortedPaths(s mapset.Set[string]) []string {
	out := s.ToSlice()
	sort.Strings(out)
	return out
}
