// Package semtest provides utilities for testing shared semaphores under
// contention. It launches many contexts against one permit pool and records
// how many of them held a permit at the same time.
//
// # Example Usage
//
//	owner, _ := shm.New(4)
//	result := semtest.Run(t, 6, 10*time.Millisecond, func() (*semaphore.Semaphore, error) {
//		guest, err := shm.FromBytes(owner.Bytes(), 4)
//		if err != nil {
//			return nil, err
//		}
//		return semaphore.Bind(guest, 4)
//	})
//	if result.Peak > 4 {
//		t.Fatal("capacity exceeded")
//	}
package semtest

import (
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/notorious-go/shmsync/semaphore"
)

// Counter tracks how many contexts are inside a held period. Contexts call
// Enter right after acquiring and Exit right before releasing.
//
// The zero-value Counter is ready to use.
type Counter struct {
	current atomic.Int64
	peak    atomic.Int64
}

// Enter records one more holder and returns the new current count.
func (c *Counter) Enter() int64 {
	n := c.current.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			return n
		}
	}
}

// Exit records one fewer holder.
func (c *Counter) Exit() {
	c.current.Add(-1)
}

// Current returns the number of holders right now.
func (c *Counter) Current() int64 {
	return c.current.Load()
}

// Peak returns the highest count ever observed by Enter.
func (c *Counter) Peak() int64 {
	return c.peak.Load()
}

// Attach creates one context's Unacquired view of the pool under test.
type Attach func() (*semaphore.Semaphore, error)

// Result summarizes one Run.
type Result struct {
	// Peak is the highest number of contexts that held a permit at once.
	Peak int
	// Slots lists the distinct slot indexes ever claimed, in ascending order.
	Slots []int
	// Acquisitions counts completed acquire and release pairs.
	Acquisitions int
}

// Run spawns n contexts. Each attaches its own view, acquires, holds its
// permit for hold, and releases. Run waits for all of them and fails the test
// if any attach, acquire or release returned an error, or if a claimed slot
// was outside the view's capacity.
func Run(t testing.TB, n int, hold time.Duration, attach Attach) Result {
	t.Helper()

	var (
		counter Counter
		mu      sync.Mutex
		slots   = make(map[int]struct{})
		count   int
	)

	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			sem, err := attach()
			if err != nil {
				return err
			}
			if err := sem.Acquire(); err != nil {
				return err
			}
			slot := sem.Slot()
			if slot < 0 || slot >= sem.Capacity() {
				t.Errorf("context %d claimed slot %d outside [0, %d)", i, slot, sem.Capacity())
			}
			counter.Enter()
			time.Sleep(hold)
			counter.Exit()

			mu.Lock()
			slots[slot] = struct{}{}
			count++
			mu.Unlock()

			return sem.Release()
		})
	}
	if err := g.Wait(); err != nil {
		t.Errorf("context failed: %v", err)
	}

	result := Result{
		Peak:         int(counter.Peak()),
		Acquisitions: count,
	}
	for slot := range slots {
		result.Slots = append(result.Slots, slot)
	}
	slices.Sort(result.Slots)
	t.Logf("ran %d contexts: peak %d holders, slots %v", n, result.Peak, result.Slots)
	return result
}
