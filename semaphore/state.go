package semaphore

import "fmt"

// State is the lifecycle position of a single Semaphore view.
type State int

const (
	// Unacquired views are bound to a pool but have not tried to claim a slot.
	Unacquired State = iota
	// Acquiring views are scanning for a free slot.
	Acquiring
	// Held views own exactly one slot.
	Held
	// Released views gave their slot back. This state is terminal.
	Released
)

func (s State) String() string {
	switch s {
	case Unacquired:
		return "unacquired"
	case Acquiring:
		return "acquiring"
	case Held:
		return "held"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
