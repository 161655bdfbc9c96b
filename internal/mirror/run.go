package mirror

import (
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Result summarizes a mirror run.
type Result struct {
	PairsSynced   int
	PairsFailed   int
	Unmatched     int
	Deleted       int
	Cloned        int
	Copied        int
	Unchanged     int
	BytesCopied   int64
	ParentSkipped int
	Skipped       []SkippedEntry
}

func (r *Result) add(pair PairResult) {
	r.Deleted += pair.Deleted
	r.Cloned += pair.Cloned
	r.Copied += pair.Copied
	r.Unchanged += pair.Unchanged
	r.BytesCopied += pair.BytesCopied
	r.ParentSkipped += len(pair.ParentSkipped)
	r.Skipped = append(r.Skipped, pair.Skipped...)
}

// RunMirror performs one run in the configured mode.
func RunMirror(options Options, logger *zap.Logger) (Result, error) {
	options = options.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	var result Result
	var err error

	switch options.Mode {
	case ModePair:
		var pair PairResult
		pair, err = MirrorPair(options.SourceRoot, options.DestinationRoot, options, logger)
		result.add(pair)
		if err != nil {
			result.PairsFailed = 1
		} else {
			result.PairsSynced = 1
		}
	default:
		var dispatched DispatchResult
		dispatched, err = Dispatch(options, logger)
		for _, pair := range dispatched.Pairs {
			result.add(pair)
		}
		result.PairsFailed = dispatched.Failed
		result.PairsSynced = len(dispatched.Pairs) - dispatched.Failed
		result.Unmatched = len(dispatched.Unmatched)
	}

	logger.Info("mirror summary",
		zap.String("mode", string(options.Mode)),
		zap.Int("pairs", result.PairsSynced),
		zap.Int("failed", result.PairsFailed),
		zap.Int("deleted", result.Deleted),
		zap.Int("cloned", result.Cloned),
		zap.Int("copied", result.Copied),
		zap.Int("unchanged", result.Unchanged),
		zap.String("transferred", humanize.Bytes(uint64(result.BytesCopied))),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, err
}
