package mirror

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sidePair struct {
	source      FileMetadata
	destination FileMetadata
}

func fakeMetadata(t *testing.T, entries map[string]sidePair) MetadataFunc {
	return func(rel string) (FileMetadata, FileMetadata, error) {
		entry, ok := entries[rel]
		if !ok {
			t.Fatalf("metadata requested for %q, which is not on both sides", rel)
		}
		return entry.source, entry.destination, nil
	}
}

func TestReconcile(t *testing.T) {
	t1 := time.Unix(1000, 0)
	t2 := time.Unix(2000, 0)

	cases := []struct {
		name          string
		source        []string
		destination   []string
		meta          map[string]sidePair
		wantCopy      []string
		wantDelete    []string
		wantUnchanged []string
	}{
		{
			name:        "Disjoint",
			source:      []string{"a", "dir/b"},
			destination: []string{"c"},
			wantCopy:    []string{"a", "dir/b"},
			wantDelete:  []string{"c"},
		},
		{
			name:          "SameSizeDestinationNewer",
			source:        []string{"f"},
			destination:   []string{"f"},
			meta:          map[string]sidePair{"f": {FileMetadata{5, t1}, FileMetadata{5, t2}}},
			wantUnchanged: []string{"f"},
		},
		{
			name:          "SameSizeSameTime",
			source:        []string{"f"},
			destination:   []string{"f"},
			meta:          map[string]sidePair{"f": {FileMetadata{5, t1}, FileMetadata{5, t1}}},
			wantUnchanged: []string{"f"},
		},
		{
			name:        "SameSizeSourceNewer",
			source:      []string{"f"},
			destination: []string{"f"},
			meta:        map[string]sidePair{"f": {FileMetadata{5, t2}, FileMetadata{5, t1}}},
			wantCopy:    []string{"f"},
			wantDelete:  []string{"f"},
		},
		{
			name:        "SizeDiffersSameTime",
			source:      []string{"f"},
			destination: []string{"f"},
			meta:        map[string]sidePair{"f": {FileMetadata{5, t1}, FileMetadata{6, t1}}},
			wantCopy:    []string{"f"},
			wantDelete:  []string{"f"},
		},
		{
			name:        "SizeDiffersDestinationNewer",
			source:      []string{"f"},
			destination: []string{"f"},
			meta:        map[string]sidePair{"f": {FileMetadata{5, t1}, FileMetadata{6, t2}}},
			wantCopy:    []string{"f"},
			wantDelete:  []string{"f"},
		},
		{
			name:        "ExampleScenario",
			source:      []string{"a.txt", "b.txt"},
			destination: []string{"a.txt", "c.txt"},
			meta:        map[string]sidePair{"a.txt": {FileMetadata{10, t2}, FileMetadata{10, t1}}},
			wantCopy:    []string{"b.txt", "a.txt"},
			wantDelete:  []string{"c.txt", "a.txt"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := Reconcile(NewSnapshot(tc.source...), NewSnapshot(tc.destination...), fakeMetadata(t, tc.meta))
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.wantCopy, plan.ToCopy)
			assert.ElementsMatch(t, tc.wantDelete, plan.ToDelete)
			assert.ElementsMatch(t, tc.wantUnchanged, plan.Unchanged)
			assert.Equal(t, len(tc.wantCopy) == 0 && len(tc.wantDelete) == 0, plan.Empty())
		})
	}
}

func TestReconcileMetadataFailure(t *testing.T) {
	boom := errors.New("stat failed")
	meta := func(rel string) (FileMetadata, FileMetadata, error) {
		return FileMetadata{}, FileMetadata{}, boom
	}
	_, err := Reconcile(NewSnapshot("x"), NewSnapshot("x"), meta)
	assert.ErrorIs(t, err, boom)
}

func TestReconcileNeverStatsOneSidedPaths(t *testing.T) {
	calls := 0
	meta := func(rel string) (FileMetadata, FileMetadata, error) {
		calls++
		return FileMetadata{}, FileMetadata{}, nil
	}
	_, err := Reconcile(NewSnapshot("only-src"), NewSnapshot("only-dst"), meta)
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestSnapshotAccessors(t *testing.T) {
	s := NewSnapshot("b", "a")
	s.Add("c/d")
	s.Add("a")

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("c/d"))
	assert.False(t, s.Contains("c"))
	assert.Equal(t, []string{"a", "b", "c/d"}, s.ToSlice())
}
