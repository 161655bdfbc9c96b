//go:build !linux && !darwin

package mirror

import (
	"errors"
	"io/fs"
)

var errCloneUnsupported = errors.New("copy-on-write clone not supported on this platform")

func cloneFile(source, destination string, perm fs.FileMode) error {
	return errCloneUnsupported
}
