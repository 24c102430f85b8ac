package terminal

import "sync/atomic"

// running is true iff a runningGuard is live
var running atomic.Bool

// Running reports whether a session currently owns the terminal
// Advisory only: the answer can be stale by the time it is used. Suitable for
// heuristics such as deciding whether a crash report would be swallowed by the
// alternate screen, not for correctness decisions
func Running() bool {
	return running.Load()
}

// runningGuard is the ownership token for the process-wide running flag
type runningGuard struct {
	released atomic.Bool
}

// acquireRunning flips the flag false->true and returns its guard
// Returns false if another guard is live
func acquireRunning() (*runningGuard, bool) {
	if !running.CompareAndSwap(false, true) {
		return nil, false
	}
	return &runningGuard{}, true
}

// release returns the flag to false
// Only the first call has an effect
func (g *runningGuard) release() {
	if g == nil || !g.released.CompareAndSwap(false, true) {
		return
	}
	running.Store(false)
}
