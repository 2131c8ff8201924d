//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package shm

import (
	"unsafe"
)

// allocate falls back to the Go heap. Allocating int32 keeps the base 4-byte
// aligned.
func allocate(size int) ([]byte, func() error, error) {
	slots := make([]int32, size/SlotSize)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(slots))), size), nil, nil
}
