//go:build debug

package sim

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// invariant panics when ok is false.
func invariant(_ *log.Logger, ok bool, msg string, keyvals ...any) bool {
	if !ok {
		panic(fmt.Sprintf("invariant violated: %s %v", msg, keyvals))
	}
	return true
}
