package load

import (
	"sync"
	"time"
)

// ScopeGlobal is the adjustment scope for the kitchen-wide load figure.
// Any other scope names a station.
const ScopeGlobal = "global"

// State holds the operator-tunable kitchen load figures. It is shared: the
// priority engine and the detectors read it on every evaluation, operators
// mutate it through the adjustment calls. Readers get a Snapshot and must
// tolerate the figures changing between reads.
type State struct {
	mu            sync.RWMutex
	globalPercent int
	station       map[string]int
	lateThreshold time.Duration
}

// Snapshot is an immutable copy of the load state at one instant.
type Snapshot struct {
	GlobalPercent  int
	StationPercent map[string]int
	LateThreshold  time.Duration
}

// New creates a State with the given defaults. Percentages are clamped to 0-100.
func New(globalPercent int, lateThreshold time.Duration) *State {
	return &State{
		globalPercent: clamp(globalPercent),
		station:       make(map[string]int),
		lateThreshold: lateThreshold,
	}
}

// Adjust applies a delta to the load percentage for the given scope and
// returns the resulting value. Scope is ScopeGlobal or a station name.
func (s *State) Adjust(scope string, delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope == ScopeGlobal {
		s.globalPercent = clamp(s.globalPercent + delta)
		return s.globalPercent
	}
	s.station[scope] = clamp(s.station[scope] + delta)
	return s.station[scope]
}

// SetLateThreshold replaces the lateness threshold used by the bottleneck
// detector.
func (s *State) SetLateThreshold(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lateThreshold = d
}

// Snapshot returns a copy safe to read without holding the lock.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	station := make(map[string]int, len(s.station))
	for k, v := range s.station {
		station[k] = v
	}
	return Snapshot{
		GlobalPercent:  s.globalPercent,
		StationPercent: station,
		LateThreshold:  s.lateThreshold,
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
