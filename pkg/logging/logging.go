package logging

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"k8s.io/klog/v2"
	"k8s.io/klog/v2/textlogger"
)

// Setup returns a klog text logger writing to w at the given verbosity and
// routes klog's global functions through it. Level 1 enables debug output.
func Setup(w io.Writer, verbosity int) (logr.Logger, error) {
	if verbosity < 0 {
		return logr.Logger{}, fmt.Errorf("verbosity must not be negative, got %d", verbosity)
	}

	cfg := textlogger.NewConfig(
		textlogger.Verbosity(verbosity),
		textlogger.Output(w),
	)
	logger := textlogger.NewLogger(cfg).WithName("health-monitor")
	klog.SetLogger(logger)
	return logger, nil
}

// Verbosity maps the verbose switches to a klog level. Verbose enables
// debug lines (V(1)) and per-request lines of the status server (V(2)).
func Verbosity(verbose bool) int {
	if verbose {
		return 2
	}
	return 0
}

// Flush writes any buffered log entries
func Flush() {
	klog.Flush()
}
