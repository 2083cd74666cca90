// Package goroutine provides utilities for safely launching goroutines with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/orris-inc/templink/internal/shared/logger"
)

// SafeGo launches fn on a new goroutine. A panic in fn is logged with its
// stack trace instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go Run(log, name, fn)
}

// Run calls fn on the current goroutine with the same panic recovery as SafeGo.
// It reports whether fn returned normally.
func Run(log logger.Interface, name string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("goroutine panicked",
				"goroutine", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			ok = false
		}
	}()
	fn()
	return true
}
