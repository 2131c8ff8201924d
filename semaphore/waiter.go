package semaphore

import (
	"runtime"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// A Waiter decides what Acquire does between scan passes that found every
// slot occupied. It never influences which slot is claimed.
//
// Waiters may keep state, so a Waiter value must not be shared by views that
// acquire concurrently. Spin and Yield are stateless and safe to share.
type Waiter interface {
	// Wait is called after the pass-th consecutive empty pass, counting from 0.
	Wait(pass int)
	// Reset is called once a slot has been claimed.
	Reset()
}

type spinWaiter struct{}

func (spinWaiter) Wait(int) {}
func (spinWaiter) Reset()   {}

// Spin returns the default Waiter, which rescans immediately with no
// backoff, yield, or sleep.
func Spin() Waiter {
	return spinWaiter{}
}

type yieldWaiter struct{}

func (yieldWaiter) Wait(int) { runtime.Gosched() }
func (yieldWaiter) Reset()   {}

// Yield returns a Waiter that yields the processor between passes.
func Yield() Waiter {
	return yieldWaiter{}
}

// Backoff returns a Waiter that sleeps for the intervals produced by b. When
// b answers backoff.Stop the policy is reset and waiting carries on;
// acquisition never gives up.
//
// A nil b selects an exponential policy from 50µs up to 10ms with no elapsed
// time limit.
func Backoff(b backoff.BackOff) Waiter {
	if b == nil {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = 50 * time.Microsecond
		exp.MaxInterval = 10 * time.Millisecond
		exp.MaxElapsedTime = 0
		exp.Reset()
		b = exp
	}
	return &backoffWaiter{b: b}
}

type backoffWaiter struct {
	b backoff.BackOff
}

func (w *backoffWaiter) Wait(int) {
	d := w.b.NextBackOff()
	if d == backoff.Stop {
		w.b.Reset()
		d = w.b.NextBackOff()
	}
	if d > 0 {
		time.Sleep(d)
	}
}

func (w *backoffWaiter) Reset() {
	w.b.Reset()
}
