package shm

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/notorious-go/shmsync/internal/xlog"
)

// SlotSize is the width in bytes of a single permit slot.
const SlotSize = 4

var (
	// ErrInvalidCapacity is returned when the requested capacity is zero or
	// negative.
	ErrInvalidCapacity = errors.New("invalid capacity")
	// ErrRegionTooSmall is returned when an attached region cannot hold the
	// requested number of slots.
	ErrRegionTooSmall = errors.New("region too small")
	// ErrMisaligned is returned when an attached region does not start on a
	// 4-byte boundary, which atomic access to its slots requires.
	ErrMisaligned = errors.New("region misaligned")
)

// A Buffer is a view over a shared region of int32 permit slots.
//
// All slot access goes through atomic operations, so a Buffer is safe for
// concurrent use by any number of goroutines, and any number of Buffers may
// view the same region.
type Buffer struct {
	region []byte
	slots  []int32

	// release frees the region. It is nil for attached regions and for heap
	// allocations, which the garbage collector reclaims.
	release   func() error
	closeOnce sync.Once
	closeErr  error
}

// New allocates a fresh region sized for capacity slots, all free.
func New(capacity int) (*Buffer, error) {
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "shm: capacity %d", capacity)
	}
	region, release, err := allocate(capacity * SlotSize)
	if err != nil {
		return nil, err
	}
	xlog.Logger.Debugf("shm: allocated %d slots (%d bytes)", capacity, len(region))
	return &Buffer{
		region:  region,
		slots:   unsafe.Slice((*int32)(unsafe.Pointer(unsafe.SliceData(region))), capacity),
		release: release,
	}, nil
}

// FromBytes attaches to an existing region, typically one obtained from
// Bytes in another context. The region is not copied and not cleared; its
// current slot values are the shared state.
//
// Bytes beyond capacity*SlotSize are ignored.
func FromBytes(region []byte, capacity int) (*Buffer, error) {
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "shm: capacity %d", capacity)
	}
	size := capacity * SlotSize
	if len(region) < size {
		return nil, errors.Wrapf(ErrRegionTooSmall, "shm: %d bytes for %d slots, need %d", len(region), capacity, size)
	}
	base := unsafe.Pointer(unsafe.SliceData(region))
	if uintptr(base)%SlotSize != 0 {
		return nil, errors.Wrapf(ErrMisaligned, "shm: base address %#x", uintptr(base))
	}
	return &Buffer{
		region: region[:size:size],
		slots:  unsafe.Slice((*int32)(base), capacity),
	}, nil
}

// Bytes returns the raw region. Handing it to another context is how that
// context joins the same permit pool.
func (b *Buffer) Bytes() []byte {
	return b.region
}

// Len returns the number of slots in the buffer.
func (b *Buffer) Len() int {
	return len(b.slots)
}

// CompareAndSwap atomically replaces slot i with new if it currently holds
// old, and reports whether the swap happened. It panics if i is out of range.
func (b *Buffer) CompareAndSwap(i int, old, new int32) bool {
	return atomic.CompareAndSwapInt32(&b.slots[i], old, new)
}

// Swap atomically stores v into slot i and returns the previous value.
func (b *Buffer) Swap(i int, v int32) int32 {
	return atomic.SwapInt32(&b.slots[i], v)
}

// Load atomically reads slot i.
func (b *Buffer) Load(i int) int32 {
	return atomic.LoadInt32(&b.slots[i])
}

// Snapshot returns the current value of every slot. Each slot is read
// atomically, but the snapshot as a whole is not a consistent cut when other
// contexts are acquiring or releasing concurrently.
func (b *Buffer) Snapshot() []int32 {
	values := make([]int32, len(b.slots))
	for i := range b.slots {
		values[i] = b.Load(i)
	}
	return values
}

// Occupied counts the slots among the first n that do not read as free. A
// negative n or one beyond Len counts the whole buffer.
func (b *Buffer) Occupied(n int) int {
	if n < 0 || n > len(b.slots) {
		n = len(b.slots)
	}
	var count int
	for i := range n {
		if b.Load(i) != 0 {
			count++
		}
	}
	return count
}

// Close releases the region if this Buffer owns it. Closing an attached view
// does nothing. Close is idempotent.
func (b *Buffer) Close() error {
	b.closeOnce.Do(func() {
		if b.release == nil {
			return
		}
		b.closeErr = b.release()
		xlog.Logger.Debugf("shm: released %d slots", len(b.slots))
	})
	return b.closeErr
}

// String returns "Buffer(occupied/len)".
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%v/%v)", b.Occupied(-1), b.Len())
}
