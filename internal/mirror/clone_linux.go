package mirror

import (
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// cloneFile shares the source extents with a new destination through the
// FICLONE ioctl. The destination must already be absent. Filesystems without
// reflink support (or a destination on another filesystem) make the ioctl fail
// and the empty file is removed.
func cloneFile(source, destination string, perm fs.FileMode) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := createExclusive(destination, perm)
	if err != nil {
		return err
	}
	if err := unix.IoctlFileClone(int(out.Fd()), int(in.Fd())); err != nil {
		out.Close()
		os.Remove(destination)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(destination)
		return err
	}
	if err := os.Chmod(destination, perm); err != nil {
		os.Remove(destination)
		return err
	}
	return nil
}
