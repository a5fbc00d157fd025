package alloc

import (
	"log/slog"
	"os"

	"github.com/joshuapare/heapkit/internal/logger"
)

// Runtime debug flag for allocation logging - controlled by HEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAP_LOG_ALLOC") != ""

// log returns the allocator's logger, falling back to the package logger so
// that logger.Init after New still takes effect.
func (al *Allocator) log() *slog.Logger {
	if al.opts.Logger != nil {
		return al.opts.Logger
	}
	return logger.L
}

// debugLog emits a debug record when allocation logging is on.
func (al *Allocator) debugLog(msg string, args ...any) {
	if logAlloc || al.opts.Trace {
		al.log().Debug(msg, args...)
	}
}
