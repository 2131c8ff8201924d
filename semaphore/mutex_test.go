package semaphore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/notorious-go/shmsync/semaphore"
	"github.com/notorious-go/shmsync/semaphore/semtest"
)

func TestMutexCapacity(t *testing.T) {
	mu, err := semaphore.NewMutex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mu.Buffer().Close() })

	assert.Equal(t, 1, mu.Capacity())
	assert.Equal(t, semaphore.Held, mu.State())
	assert.Len(t, mu.Shared(), 4)
	require.NoError(t, mu.Release())
}

func TestMutexFromShared(t *testing.T) {
	owner, err := semaphore.NewMutex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = owner.Buffer().Close() })

	done := make(chan *semaphore.Mutex, 1)
	go func() {
		guest, err := semaphore.MutexFromShared(owner.Shared())
		if err != nil {
			t.Errorf("attach: %v", err)
			close(done)
			return
		}
		done <- guest
	}()
	require.NoError(t, owner.Release())
	guest := <-done
	require.NotNil(t, guest)
	assert.Equal(t, 0, guest.Slot())
	require.NoError(t, guest.Release())
}

func TestMutexExclusivity(t *testing.T) {
	buf := newBuffer(t, 1)

	var (
		counter semtest.Counter
		g       errgroup.Group
	)
	for range 8 {
		g.Go(func() error {
			for range 25 {
				mu, err := semaphore.BindMutex(buf, semaphore.WithWaiter(semaphore.Yield()))
				if err != nil {
					return err
				}
				if err := mu.Acquire(); err != nil {
					return err
				}
				if n := counter.Enter(); n != 1 {
					t.Errorf("%d mutex holders at once", n)
				}
				counter.Exit()
				if err := mu.Release(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int64(1), counter.Peak())
	assert.Equal(t, []int32{0}, buf.Snapshot())
}

func TestBindMutexUsesFirstSlot(t *testing.T) {
	buf := newBuffer(t, 3)
	mu, err := semaphore.BindMutex(buf)
	require.NoError(t, err)
	require.NoError(t, mu.Acquire())
	assert.Equal(t, []int32{1, 0, 0}, buf.Snapshot())
	require.NoError(t, mu.Release())
}
