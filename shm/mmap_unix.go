//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package shm

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// allocate maps an anonymous shared region. The kernel hands it back
// zero-filled and page aligned.
func allocate(size int) ([]byte, func() error, error) {
	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_ANON)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "shm: mmap %d bytes", size)
	}
	release := func() error {
		if err := unix.Munmap(region); err != nil {
			return errors.Wrap(err, "shm: munmap")
		}
		return nil
	}
	return region, release, nil
}
