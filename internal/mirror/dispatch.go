package mirror

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DispatchResult collects the outcome of every pair a dispatch attempted.
type DispatchResult struct {
	Pairs     []PairResult
	// Unmatched lists destination directories with no source directory.
	Unmatched []string
	Failed    int
}

// pairCandidates returns the names of the destination's immediate
// subdirectories in lexical order. Symlinks are not followed.
func pairCandidates(destinationRoot string) ([]string, error) {
	entries, err := os.ReadDir(destinationRoot)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Dispatch runs MirrorPair for every top-level directory of the destination
// root whose counterpart under the source root is a directory. Destination
// directories without a counterpart are left alone.
func Dispatch(options Options, logger *zap.Logger) (DispatchResult, error) {
	options = options.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	var result DispatchResult

	if err := checkPair(options.SourceRoot, options.DestinationRoot); err != nil {
		logger.Error("refusing to dispatch", zap.String("source", options.SourceRoot), zap.String("destination", options.DestinationRoot), zap.Error(err))
		return result, err
	}
	names, err := pairCandidates(options.DestinationRoot)
	if err != nil {
		logger.Error("list destination root", zap.String("root", options.DestinationRoot), zap.Error(err))
		return result, &EnumerationError{Path: options.DestinationRoot, Err: err}
	}

	type pair struct{ source, destination string }
	var pairs []pair
	for _, name := range names {
		source := filepath.Join(options.SourceRoot, name)
		destination := filepath.Join(options.DestinationRoot, name)
		info, statErr := os.Stat(source)
		if statErr != nil || !info.IsDir() {
			logger.Debug("no source directory, leaving destination untouched", zap.String("destination", destination))
			result.Unmatched = append(result.Unmatched, destination)
			continue
		}
		pairs = append(pairs, pair{source: source, destination: destination})
	}

	options.Report = &lockedWriter{w: options.Report}
	results := make([]PairResult, len(pairs))
	errs := make([]error, len(pairs))

	if options.Jobs == 1 {
		for i, p := range pairs {
			results[i], errs[i] = MirrorPair(p.source, p.destination, options, logger)
			if errs[i] != nil && options.OnPairError == FailAbort {
				break
			}
		}
	} else {
		var group errgroup.Group
		group.SetLimit(options.Jobs)
		var abort sync.Once
		stop := make(chan struct{})
		for i, p := range pairs {
			if stopped(stop) {
				break
			}
			group.Go(func() error {
				// Go blocks for a free slot, so an abort may land while waiting.
				if stopped(stop) {
					return nil
				}
				results[i], errs[i] = MirrorPair(p.source, p.destination, options, logger)
				if errs[i] != nil && options.OnPairError == FailAbort {
					abort.Do(func() { close(stop) })
				}
				return nil
			})
		}
		_ = group.Wait()
	}

	var combined error
	for i, err := range errs {
		if results[i].Source == "" {
			continue
		}
		result.Pairs = append(result.Pairs, results[i])
		if err != nil {
			result.Failed++
			combined = multierr.Append(combined, err)
		}
	}
	return result, combined
}

func stopped(stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}

// lockedWriter serializes report lines from concurrent pairs.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
