package semaphore

import (
	"github.com/pkg/errors"

	"github.com/notorious-go/shmsync/shm"
)

var (
	// ErrInvalidCapacity is returned when a semaphore is created with a
	// capacity below one.
	ErrInvalidCapacity = shm.ErrInvalidCapacity
	// ErrCapacityExceedsBuffer is returned by Bind when the buffer holds fewer
	// slots than the requested capacity.
	ErrCapacityExceedsBuffer = errors.New("capacity exceeds buffer")
	// ErrNoHeldPermit is returned by Release when the view does not hold a
	// permit, either because it never acquired one or because it already
	// released it.
	ErrNoHeldPermit = errors.New("no held permit")
	// ErrNotUnacquired is returned by Acquire and TryAcquire on a view that
	// has already left the Unacquired state. A view never re-acquires.
	ErrNotUnacquired = errors.New("semaphore already used")
	// ErrSlotCorrupted is returned by Release when the slot did not read as
	// held at the moment it was cleared, meaning something outside the
	// protocol wrote to the region.
	ErrSlotCorrupted = errors.New("slot corrupted")
)
