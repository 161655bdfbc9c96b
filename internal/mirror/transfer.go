package mirror

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// TransferOutcome describes how a destination file was materialized.
type TransferOutcome int

const (
	// TransferSkipped means nothing was written because the destination parent
	// was missing under ParentsSkipMissing.
	TransferSkipped TransferOutcome = iota
	// TransferCloned means the destination shares storage with the source.
	TransferCloned
	// TransferCopied means the bytes were copied in full.
	TransferCopied
)

func (o TransferOutcome) String() string {
	switch o {
	case TransferCloned:
		return "cloned"
	case TransferCopied:
		return "copied"
	default:
		return "skipped"
	}
}

// TransferOptions configures a single transfer.
type TransferOptions struct {
	Parents ParentPolicy
	Clone   ClonePolicy
}

// TransferFile materializes destination as a copy of source. A copy-on-write
// clone is tried first; when it is unavailable the bytes are copied in full.
// Both paths produce the same bytes and the same error contract.
func TransferFile(source, destination string, opts TransferOptions) (TransferOutcome, int64, error) {
	parent := filepath.Dir(destination)
	switch opts.Parents {
	case ParentsSkipMissing:
		info, err := os.Stat(parent)
		if errors.Is(err, fs.ErrNotExist) {
			return TransferSkipped, 0, nil
		}
		if err != nil {
			return TransferSkipped, 0, &TransferError{Source: source, Destination: destination, Err: err}
		}
		if !info.IsDir() {
			return TransferSkipped, 0, &TransferError{Source: source, Destination: destination, Err: ErrNotDirectory}
		}
	default:
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return TransferSkipped, 0, &TransferError{Source: source, Destination: destination, Err: err}
		}
	}

	info, err := os.Stat(source)
	if err != nil {
		return TransferSkipped, 0, &TransferError{Source: source, Destination: destination, Err: err}
	}

	if err := clearDestination(destination); err != nil {
		return TransferSkipped, 0, &TransferError{Source: source, Destination: destination, Err: err}
	}

	if opts.Clone != CloneNever {
		if err := cloneFile(source, destination, info.Mode().Perm()); err == nil {
			return TransferCloned, info.Size(), nil
		}
	}

	written, err := copyContents(source, destination, info.Mode().Perm())
	if err != nil {
		return TransferSkipped, 0, &TransferError{Source: source, Destination: destination, Err: err}
	}
	return TransferCopied, written, nil
}

// clearDestination removes whatever entry sits at destination so that both
// transfer stages create a fresh file and never write through a symlink.
func clearDestination(destination string) error {
	info, err := os.Lstat(destination)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("destination is a directory: %w", fs.ErrExist)
	}
	return os.Remove(destination)
}

// createExclusive fails if anything, including a dangling symlink, appears at
// destination after clearDestination.
func createExclusive(destination string, perm fs.FileMode) (*os.File, error) {
	return os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
}

func copyContents(source, destination string, perm fs.FileMode) (int64, error) {
	in, err := os.Open(source)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := createExclusive(destination, perm)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return written, err
	}
	if err := out.Close(); err != nil {
		return written, err
	}
	// OpenFile only applies perm on creation and through the umask.
	return written, os.Chmod(destination, perm)
}
