// Package shm provides the raw shared memory region that backs a shared
// semaphore: a contiguous array of 32-bit signed integers, one per permit.
//
// # Layout
//
// A Buffer for capacity N occupies exactly N*4 bytes. Slot i lives at byte
// offset i*4 in the platform's native byte order and holds 0 when free and 1
// when held. Every context that attaches to a region must agree on the
// capacity and on this layout byte for byte; the region carries no header.
//
// # Allocation
//
// On Linux and the BSDs (including darwin) New maps an anonymous MAP_SHARED
// region through golang.org/x/sys/unix, so the memory stays put regardless of
// the Go heap. Elsewhere the region is an ordinary heap allocation of int32,
// which is equally valid for contexts within one process.
//
// # Sharing
//
// The region is referenced, never copied. Bytes returns the raw handle and
// FromBytes turns such a handle back into a Buffer view over the same memory:
//
//	owner, _ := shm.New(4)
//	guest, _ := shm.FromBytes(owner.Bytes(), 4)
//	// owner and guest address identical slots.
//
// Only the Buffer returned by New owns the mapping. Close on that Buffer
// releases the memory and must not happen while any view is still in use.
package shm
