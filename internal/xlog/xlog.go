// Package xlog holds the module logger shared by the shmsync packages.
package xlog

import (
	"github.com/op/go-logging"
)

// Module is the go-logging module name used by every shmsync package.
const Module = "shmsync"

// Logger is the default logger for the library. Only DEBUG records are
// emitted by library code, so the module starts at WARNING and stays silent
// until an application raises it.
var Logger = logging.MustGetLogger(Module)

func init() {
	logging.SetLevel(logging.WARNING, Module)
}
