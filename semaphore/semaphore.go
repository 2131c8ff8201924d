package semaphore

import (
	"fmt"

	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/notorious-go/shmsync/shm"
)

const (
	free int32 = 0
	held int32 = 1
)

// Semaphore is one context's view of a shared permit pool. The pool is the
// first Capacity slots of the view's shm.Buffer.
//
// A Semaphore holds at most one permit at a time and is not safe for
// concurrent use; every coordinating context creates its own view. The shared
// slots themselves are only ever touched atomically, so any number of views
// may operate on one Buffer concurrently.
type Semaphore struct {
	buf      *shm.Buffer
	capacity int
	waiter   Waiter
	log      *logging.Logger

	state State
	// slot is the index this view claimed, or -1 while no slot is held.
	slot int
}

// Bind creates an Unacquired view over the first capacity slots of buf. It
// does not touch the shared slots.
//
// Every view of one pool must be bound with the same capacity.
func Bind(buf *shm.Buffer, capacity int, opts ...Option) (*Semaphore, error) {
	if buf == nil {
		panic("semaphore: bind to nil buffer")
	}
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "semaphore: capacity %d", capacity)
	}
	if capacity > buf.Len() {
		return nil, errors.Wrapf(ErrCapacityExceedsBuffer, "semaphore: capacity %d, buffer %d slots", capacity, buf.Len())
	}
	c := newConfig(opts)
	return &Semaphore{
		buf:      buf,
		capacity: capacity,
		waiter:   c.waiter,
		log:      c.log,
		state:    Unacquired,
		slot:     -1,
	}, nil
}

// New allocates a fresh pool of capacity permits and returns a view that
// already holds one of them. Other contexts join the pool through Shared.
func New(capacity int, opts ...Option) (*Semaphore, error) {
	buf, err := shm.New(capacity)
	if err != nil {
		return nil, err
	}
	s, err := Bind(buf, capacity, opts...)
	if err != nil {
		_ = buf.Close()
		return nil, err
	}
	if err := s.Acquire(); err != nil {
		_ = buf.Close()
		return nil, err
	}
	return s, nil
}

// FromShared attaches to the pool whose raw region was obtained from Shared
// in another context, and returns a view that holds one of its permits. It
// blocks until a permit is free.
func FromShared(region []byte, capacity int, opts ...Option) (*Semaphore, error) {
	buf, err := shm.FromBytes(region, capacity)
	if err != nil {
		return nil, err
	}
	s, err := Bind(buf, capacity, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Acquire(); err != nil {
		return nil, err
	}
	return s, nil
}

// Acquire blocks until the view claims a free slot.
//
// Each pass tries the slots in ascending order and claims the first one that
// atomically flips from free to held. Between empty passes the configured
// Waiter runs. Acquire cannot be interrupted; the only error it returns is
// ErrNotUnacquired for a view that was already used.
func (s *Semaphore) Acquire() error {
	if err := s.begin("acquire"); err != nil {
		return err
	}
	for pass := 0; ; pass++ {
		if s.scan() {
			s.waiter.Reset()
			return nil
		}
		s.waiter.Wait(pass)
	}
}

// TryAcquire makes a single ascending pass over the slots. It reports
// whether a slot was claimed; when none was, the view returns to Unacquired
// and may try again.
func (s *Semaphore) TryAcquire() (bool, error) {
	if err := s.begin("try acquire"); err != nil {
		return false, err
	}
	if s.scan() {
		return true, nil
	}
	s.state = Unacquired
	return false, nil
}

func (s *Semaphore) begin(op string) error {
	if s.state != Unacquired {
		return errors.Wrapf(ErrNotUnacquired, "semaphore: %s in state %v", op, s.state)
	}
	s.state = Acquiring
	return nil
}

// scan performs one pass and records the claimed slot on success.
func (s *Semaphore) scan() bool {
	for i := range s.capacity {
		if s.buf.CompareAndSwap(i, free, held) {
			s.slot = i
			s.state = Held
			s.log.Debugf("semaphore: claimed slot %d of %d", i, s.capacity)
			return true
		}
	}
	return false
}

// Release returns the held slot to the pool. The view becomes Released and
// never holds a permit again.
//
// Release fails with ErrNoHeldPermit, without touching shared memory, when
// the view does not hold a slot. If the slot did not read as held while being
// cleared, the slot is still left free and ErrSlotCorrupted is returned.
func (s *Semaphore) Release() error {
	if s.state != Held {
		return errors.Wrapf(ErrNoHeldPermit, "semaphore: release in state %v", s.state)
	}
	slot := s.slot
	prev := s.buf.Swap(slot, free)
	s.slot = -1
	s.state = Released
	s.log.Debugf("semaphore: released slot %d of %d", slot, s.capacity)
	if prev != held {
		return errors.Wrapf(ErrSlotCorrupted, "semaphore: slot %d read %d on release", slot, prev)
	}
	return nil
}

// State returns the view's lifecycle state.
func (s *Semaphore) State() State {
	return s.state
}

// Slot returns the index of the held slot, or -1 if the view holds none.
func (s *Semaphore) Slot() int {
	return s.slot
}

// Capacity returns the number of permits in the pool.
func (s *Semaphore) Capacity() int {
	return s.capacity
}

// Available returns how many of the pool's permits currently read as free.
// The answer may be stale as soon as it is returned.
func (s *Semaphore) Available() int {
	return s.capacity - s.buf.Occupied(s.capacity)
}

// Shared returns the raw region backing the pool, for transfer to another
// context that will attach through FromShared.
func (s *Semaphore) Shared() []byte {
	return s.buf.Bytes()
}

// Buffer returns the buffer the view is bound to.
func (s *Semaphore) Buffer() *shm.Buffer {
	return s.buf
}

// String returns "Semaphore(acquired/capacity)" for the whole pool.
func (s *Semaphore) String() string {
	return fmt.Sprintf("Semaphore(%v/%v)", s.buf.Occupied(s.capacity), s.capacity)
}
