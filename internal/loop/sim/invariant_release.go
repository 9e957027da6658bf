//go:build !debug

package sim

import "github.com/charmbracelet/log"

// invariant logs a violation and reports ok so the caller can clamp.
func invariant(logger *log.Logger, ok bool, msg string, keyvals ...any) bool {
	if !ok {
		logger.Warn("invariant violated: "+msg, keyvals...)
	}
	return ok
}
