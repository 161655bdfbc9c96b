package mirror

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileMetadata is the part of a file's attributes the reconciler compares.
type FileMetadata struct {
	Size    int64
	ModTime time.Time
}

// MetadataFunc returns the metadata of the copy of rel on one side.
type MetadataFunc func(rel string) (source FileMetadata, destination FileMetadata, err error)

// Plan is the classification of every path seen in either snapshot. A path
// whose destination copy is stale appears in both ToCopy and ToDelete.
type Plan struct {
	ToCopy    []string
	ToDelete  []string
	Unchanged []string
}

// Empty reports whether the plan requires no action.
func (p Plan) Empty() bool {
	return len(p.ToCopy) == 0 && len(p.ToDelete) == 0
}

// needsRefresh decides whether a destination copy is stale. Contents are never
// compared: a same-sized destination that is not older than the source is kept.
func needsRefresh(source, destination FileMetadata) bool {
	return source.Size != destination.Size || source.ModTime.After(destination.ModTime)
}

// Reconcile classifies the paths of two snapshots. Metadata is only fetched
// for paths present on both sides.
func Reconcile(source, destination Snapshot, meta MetadataFunc) (Plan, error) {
	var plan Plan

	plan.ToCopy = sortedPaths(source.paths.Difference(destination.paths))
	plan.ToDelete = sortedPaths(destination.paths.Difference(source.paths))

	for _, rel := range sortedPaths(source.paths.Intersect(destination.paths)) {
		srcMeta, dstMeta, err := meta(rel)
		if err != nil {
			return Plan{}, fmt.Errorf("compare %s: %w", rel, err)
		}
		if needsRefresh(srcMeta, dstMeta) {
			plan.ToCopy = append(plan.ToCopy, rel)
			plan.ToDelete = append(plan.ToDelete, rel)
			continue
		}
		plan.Unchanged = append(plan.Unchanged, rel)
	}
	return plan, nil
}

// StatMetadata returns a MetadataFunc reading attributes from the two roots.
func StatMetadata(sourceRoot, destinationRoot string) MetadataFunc {
	return func(rel string) (FileMetadata, FileMetadata, error) {
		src, err := statMetadata(filepath.Join(sourceRoot, filepath.FromSlash(rel)))
		if err != nil {
			return FileMetadata{}, FileMetadata{}, err
		}
		dst, err := statMetadata(filepath.Join(destinationRoot, filepath.FromSlash(rel)))
		if err != nil {
			return FileMetadata{}, FileMetadata{}, err
		}
		return src, dst, nil
	}
}

func statMetadata(path string) (FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileMetadata{}, err
	}
	return FileMetadata{Size: info.Size(), ModTime: info.ModTime()}, nil
}
