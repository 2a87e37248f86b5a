package loader

import "sync/atomic"

// Session numbers subtitle loads so late results can be recognized.
// Each load begins a new generation; a fetch finishing after a newer
// load began is stale and must be dropped, not installed.
type Session struct {
	gen atomic.Uint64
}

// Begin starts a new load generation and returns its id.
func (s *Session) Begin() uint64 {
	return s.gen.Add(1)
}

// Current reports whether gen is still the latest generation.
func (s *Session) Current(gen uint64) bool {
	return s.gen.Load() == gen
}
