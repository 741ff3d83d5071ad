package service

import "sync/atomic"

// flight is the per-flow submit latch. Mutating operations begin/end around
// their work; a second submit while one is in flight is rejected, not queued.
type flight struct {
	busy atomic.Bool
}

func (f *flight) begin() bool {
	return f.busy.CompareAndSwap(false, true)
}

func (f *flight) end() {
	f.busy.Store(false)
}
