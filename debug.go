package segue

import (
	"fmt"
	"os"
)

// globalDebug mirrors the most recently set Stage debug flag so that node
// operations (which lack a Stage pointer) can check it cheaply. Only valid
// with a single Stage; multiple Stages with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// logf prints an orchestration fault to stderr. Faults logged here (listener
// panics, cleanup panics) are swallowed at the dispatch boundary so they
// cannot corrupt shared state.
func logf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[segue] "+format+"\n", args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed node
// is used in a tree operation. Only called in debug mode; in release mode
// callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("segue debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}
