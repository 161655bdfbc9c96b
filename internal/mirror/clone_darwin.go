package mirror

import (
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// cloneFile uses clonefile(2), which requires the destination to be absent
// and carries the source timestamps over to the clone.
func cloneFile(source, destination string, perm fs.FileMode) error {
	if err := unix.Clonefile(source, destination, unix.CLONE_NOFOLLOW); err != nil {
		return err
	}
	if err := os.Chmod(destination, perm); err != nil {
		os.Remove(destination)
		return err
	}
	return nil
}
