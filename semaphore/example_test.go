package semaphore_test

import (
	"errors"
	"fmt"

	"github.com/notorious-go/shmsync/semaphore"
)

func Example() {
	// New allocates the shared region and claims the first permit.
	owner, err := semaphore.New(2)
	if err != nil {
		panic(err)
	}
	defer owner.Buffer().Close()
	fmt.Println("Created:", owner, "slot", owner.Slot())

	// Another context joins the pool through the raw region only.
	guest, err := semaphore.FromShared(owner.Shared(), 2)
	if err != nil {
		panic(err)
	}
	fmt.Println("Guest attached:", guest, "slot", guest.Slot())

	// Bind does not claim anything, so a full pool can be probed with a
	// single pass instead of spinning.
	late, err := semaphore.Bind(guest.Buffer(), 2)
	if err != nil {
		panic(err)
	}
	ok, _ := late.TryAcquire()
	fmt.Println("Late TryAcquire:", ok, late.State())

	_ = owner.Release()
	fmt.Println("Owner released:", owner, owner.State())

	// Low slots are always tried first.
	ok, _ = late.TryAcquire()
	fmt.Println("Late TryAcquire:", ok, "slot", late.Slot())

	// A released view can neither release nor acquire again.
	err = owner.Release()
	fmt.Println("Second release rejected:", errors.Is(err, semaphore.ErrNoHeldPermit))

	_ = guest.Release()
	_ = late.Release()
	fmt.Println("Final:", owner)

	// Output:
	// Created: Semaphore(1/2) slot 0
	// Guest attached: Semaphore(2/2) slot 1
	// Late TryAcquire: false unacquired
	// Owner released: Semaphore(1/2) released
	// Late TryAcquire: true slot 0
	// Second release rejected: true
	// Final: Semaphore(0/2)
}

func ExampleMutex() {
	mu, err := semaphore.NewMutex()
	if err != nil {
		panic(err)
	}
	defer mu.Buffer().Close()
	fmt.Println("Locked:", mu, mu.State())

	other, err := semaphore.BindMutex(mu.Buffer())
	if err != nil {
		panic(err)
	}
	ok, _ := other.TryAcquire()
	fmt.Println("Other locked:", ok)

	_ = mu.Release()
	ok, _ = other.TryAcquire()
	fmt.Println("Other locked after release:", ok, other)
	_ = other.Release()

	// Output:
	// Locked: Semaphore(1/1) held
	// Other locked: false
	// Other locked after release: true Semaphore(1/1)
}
