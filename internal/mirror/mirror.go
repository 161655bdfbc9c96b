package mirror

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// PairResult counts what one pass over a source/destination pair did.
type PairResult struct {
	Source        string
	Destination   string
	Deleted       int
	Cloned        int
	Copied        int
	Unchanged     int
	BytesCopied   int64
	// ParentSkipped lists destination paths left uncopied under ParentsSkipMissing.
	ParentSkipped []string
	Skipped       []SkippedEntry
}

// MirrorPair makes destination hold exactly the regular files of source. Stale
// and destination-only files are deleted first, then new and changed files are
// transferred. Any failure stops the pass.
func MirrorPair(source, destination string, options Options, logger *zap.Logger) (PairResult, error) {
	options = options.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	result := PairResult{Source: source, Destination: destination}

	if err := checkPair(source, destination); err != nil {
		logger.Error("refusing to sync pair", zap.String("source", source), zap.String("destination", destination), zap.Error(err))
		return result, err
	}

	sourceFiles, sourceSkipped, err := ListTree(source, options.Enumeration, options.IgnoreMatcher)
	result.Skipped = append(result.Skipped, sourceSkipped...)
	if err != nil {
		logger.Error("list source", zap.String("root", source), zap.Error(err))
		return result, err
	}
	destinationFiles, destinationSkipped, err := ListTree(destination, options.Enumeration, options.IgnoreMatcher)
	result.Skipped = append(result.Skipped, destinationSkipped...)
	if err != nil {
		logger.Error("list destination", zap.String("root", destination), zap.Error(err))
		return result, err
	}
	for _, entry := range result.Skipped {
		logger.Warn("skipped entry", zap.String("path", entry.Path), zap.Error(entry.Err))
	}

	plan, err := Reconcile(sourceFiles, destinationFiles, StatMetadata(source, destination))
	if err != nil {
		logger.Error("reconcile", zap.String("source", source), zap.String("destination", destination), zap.Error(err))
		return result, err
	}
	result.Unchanged = len(plan.Unchanged)
	logger.Debug("reconciled pair",
		zap.String("source", source),
		zap.String("destination", destination),
		zap.Int("copy", len(plan.ToCopy)),
		zap.Int("delete", len(plan.ToDelete)),
		zap.Int("unchanged", len(plan.Unchanged)),
	)

	for _, rel := range plan.ToDelete {
		target := filepath.Join(destination, filepath.FromSlash(rel))
		if err := os.Remove(target); err != nil {
			delErr := &DeletionError{Path: target, Err: err}
			logger.Error("delete file", zap.String("path", target), zap.Error(err))
			return result, delErr
		}
		result.Deleted++
		if err := reportLine(options.Report, "Delete %s\n", target); err != nil {
			logger.Error("write report", zap.Error(err))
			return result, err
		}
	}

	transfer := TransferOptions{Parents: options.Parents, Clone: options.Clone}
	for _, rel := range plan.ToCopy {
		from := filepath.Join(source, filepath.FromSlash(rel))
		to := filepath.Join(destination, filepath.FromSlash(rel))
		outcome, written, err := TransferFile(from, to, transfer)
		if err != nil {
			logger.Error("copy file", zap.String("source", from), zap.String("destination", to), zap.Error(err))
			return result, err
		}
		switch outcome {
		case TransferSkipped:
			logger.Info("destination parent missing, not copying", zap.String("destination", to))
			result.ParentSkipped = append(result.ParentSkipped, to)
			continue
		case TransferCloned:
			result.Cloned++
		case TransferCopied:
			result.Copied++
		}
		result.BytesCopied += written
		logger.Debug("transferred file", zap.String("destination", to), zap.Stringer("outcome", outcome), zap.Int64("bytes", written))
		if err := reportLine(options.Report, "Copy %s -> %s\n", from, to); err != nil {
			logger.Error("write report", zap.Error(err))
			return result, err
		}
	}

	return result, nil
}

func reportLine(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// checkPair rejects pairs that cannot be synced before anything is read.
func checkPair(source, destination string) error {
	sourceInfo, err := os.Stat(source)
	if err != nil {
		return &StructuralError{Op: "stat source", Path: source, Err: err}
	}
	if !sourceInfo.IsDir() {
		return &StructuralError{Op: "check source", Path: source, Err: ErrNotDirectory}
	}
	destinationInfo, err := os.Stat(destination)
	if err != nil {
		return &StructuralError{Op: "stat destination", Path: destination, Err: err}
	}
	if !destinationInfo.IsDir() {
		return &StructuralError{Op: "check destination", Path: destination, Err: ErrNotDirectory}
	}
	if os.SameFile(sourceInfo, destinationInfo) {
		return &StructuralError{Op: "check pair", Path: destination, Err: ErrSameEntry}
	}
	return nil
}
