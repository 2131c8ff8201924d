package semaphore

import "github.com/notorious-go/shmsync/shm"

// Mutex is a Semaphore with a single permit.
type Mutex struct {
	*Semaphore
}

// BindMutex creates an Unacquired mutex view over the first slot of buf.
func BindMutex(buf *shm.Buffer, opts ...Option) (*Mutex, error) {
	s, err := Bind(buf, 1, opts...)
	if err != nil {
		return nil, err
	}
	return &Mutex{s}, nil
}

// NewMutex allocates a fresh one-slot region and returns a locked view.
func NewMutex(opts ...Option) (*Mutex, error) {
	s, err := New(1, opts...)
	if err != nil {
		return nil, err
	}
	return &Mutex{s}, nil
}

// MutexFromShared attaches to a mutex region and blocks until it holds the
// lock.
func MutexFromShared(region []byte, opts ...Option) (*Mutex, error) {
	s, err := FromShared(region, 1, opts...)
	if err != nil {
		return nil, err
	}
	return &Mutex{s}, nil
}
