// Package semaphore provides a counting semaphore whose entire state lives in
// a shared memory region, so that independent contexts which share nothing but
// that region can coordinate over a fixed number of interchangeable permits.
//
// # Why This Package Exists
//
// The usual Go semaphores (buffered channels, golang.org/x/sync/semaphore)
// keep their state in ordinary Go memory that only one program image can see.
// This package keeps one int32 slot per permit in a raw region provided by
// package shm. The region is the only channel of coordination: any context
// that can see the bytes can attach its own view and race for the permits.
//
// # Protocol
//
// A permit is claimed by an atomic compare-and-swap of a slot from 0 to 1 and
// returned by an atomic store of 0. Acquire scans the slots in ascending order
// and claims the first one whose swap succeeds; when a whole pass comes up
// empty it consults its [Waiter] and scans again. There is no lock layered on
// top - the slot array is the synchronization primitive.
//
// # Views
//
// A [Semaphore] is one context's view of the pool. It holds at most one
// permit, and moves through a one-way state machine:
//
//	Unacquired -> Acquiring -> Held -> Released
//
// [Bind] creates a view without side effects. [New] and [FromShared] keep the
// one-shot style of binding and acquiring at once:
//
//	owner, _ := semaphore.New(4)       // allocates a region, claims a slot
//	defer owner.Release()
//	region := owner.Shared()           // hand this to another context
//
//	guest, _ := semaphore.FromShared(region, 4)
//	defer guest.Release()
//
// A view that still holds its permit when its context ends leaks that slot
// for good; nothing reclaims it.
//
// # When NOT to Use This Package
//
//   - Goroutines sharing ordinary memory: use a buffered channel or
//     golang.org/x/sync/semaphore.
//   - FIFO fairness: low slots are always tried first and a waiter can be
//     overtaken indefinitely.
//   - Timeouts or cancellation: Acquire only returns once it holds a permit.
//
// # Waiting
//
// By default Acquire busy spins between passes, trading CPU for wake-up
// latency. [WithWaiter] swaps in a different strategy such as [Yield] or
// [Backoff]; the claim itself is unaffected by the choice.
//
// [Mutex] is the capacity-1 case.
package semaphore
