// Command semrace races a number of contexts for the permits of one shared
// semaphore pool and reports how many held a permit at the same time.
//
// Every context attaches through the raw region, exactly as a context that
// received the region from elsewhere would.
package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/op/go-logging"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/notorious-go/shmsync/internal/xlog"
	"github.com/notorious-go/shmsync/semaphore"
	"github.com/notorious-go/shmsync/shm"
)

var (
	logger = logging.MustGetLogger("semrace")
	format = logging.MustStringFormatter(
		"%{color}%{time:15:04:05.000} %{level:.1s} %{module} ▶%{color:reset} %{message}",
	)
)

type options struct {
	capacity int
	contexts int
	hold     time.Duration
	wait     string
	verbose  bool
}

func main() {
	opts := options{
		capacity: 4,
		contexts: 6,
		hold:     50 * time.Millisecond,
		wait:     "spin",
	}
	flag.IntVarP(&opts.capacity, "capacity", "c", opts.capacity, "number of permits in the pool")
	flag.IntVarP(&opts.contexts, "contexts", "n", opts.contexts, "number of racing contexts")
	flag.DurationVar(&opts.hold, "hold", opts.hold, "how long each context holds its permit")
	flag.StringVar(&opts.wait, "wait", opts.wait, "wait strategy between empty passes: spin, yield, backoff")
	flag.BoolVarP(&opts.verbose, "verbose", "v", opts.verbose, "log every slot claim and release")
	flag.Parse()

	setupLogging(opts.verbose)

	if err := run(opts); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	leveled.SetLevel(logging.INFO, "")
	if verbose {
		leveled.SetLevel(logging.DEBUG, xlog.Module)
	} else {
		leveled.SetLevel(logging.WARNING, xlog.Module)
	}
	logging.SetBackend(leveled)
}

func newWaiter(name string) (func() semaphore.Waiter, error) {
	switch name {
	case "spin":
		return semaphore.Spin, nil
	case "yield":
		return semaphore.Yield, nil
	case "backoff":
		return func() semaphore.Waiter { return semaphore.Backoff(nil) }, nil
	default:
		return nil, fmt.Errorf("unknown wait strategy %q", name)
	}
}

func run(opts options) error {
	waiter, err := newWaiter(opts.wait)
	if err != nil {
		return err
	}
	pool, err := shm.New(opts.capacity)
	if err != nil {
		return err
	}
	defer pool.Close()
	region := pool.Bytes()
	logger.Infof("racing %d contexts for %d permits (%d byte region, %s wait)", opts.contexts, opts.capacity, len(region), opts.wait)

	var (
		holders, peak atomic.Int64
		g             errgroup.Group
	)
	start := time.Now()
	for id := range opts.contexts {
		g.Go(func() error {
			buf, err := shm.FromBytes(region, opts.capacity)
			if err != nil {
				return err
			}
			sem, err := semaphore.Bind(buf, opts.capacity, semaphore.WithWaiter(waiter()))
			if err != nil {
				return err
			}
			if err := sem.Acquire(); err != nil {
				return err
			}
			n := holders.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			logger.Infof("context %d holds slot %d (%d holders)", id, sem.Slot(), n)
			time.Sleep(opts.hold)
			holders.Add(-1)
			logger.Infof("context %d releases slot %d", id, sem.Slot())
			return sem.Release()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Infof("done in %v: peak %d holders, pool %v", time.Since(start).Round(time.Millisecond), peak.Load(), pool)
	if p := peak.Load(); p > int64(opts.capacity) {
		return fmt.Errorf("peak %d holders exceeds capacity %d", p, opts.capacity)
	}
	return nil
}
