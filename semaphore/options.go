package semaphore

import (
	"github.com/op/go-logging"

	"github.com/notorious-go/shmsync/internal/xlog"
)

// An Option configures a Semaphore view.
type Option func(*config)

type config struct {
	waiter Waiter
	log    *logging.Logger
}

func newConfig(opts []Option) config {
	c := config{
		waiter: Spin(),
		log:    xlog.Logger,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithWaiter sets the strategy used between empty scan passes. A nil w keeps
// the default busy spin.
func WithWaiter(w Waiter) Option {
	return func(c *config) {
		if w != nil {
			c.waiter = w
		}
	}
}

// WithLogger routes the view's debug records to l instead of the shmsync
// module logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}
