package input

import (
	"github.com/Glubus/prism-vsrg/internal/engine"
)

// RawEvent is a physical key transition as reported by the input
// producer, timestamped on the simulation clock at receipt.
type RawEvent struct {
	Key    string
	Down   bool
	TimeMS float64
}

// Stage turns raw key transitions into lane actions and debounces
// duplicate transitions (terminal key repeat reports a held key as a
// stream of downs). It is pure state-machine code: the session loop
// owns the channels around it.
type Stage struct {
	keymap *Keymap
	held   []bool
}

// NewStage builds an input stage over a validated keymap.
func NewStage(keymap *Keymap) *Stage {
	return &Stage{
		keymap: keymap,
		held:   make([]bool, keymap.KeyCount()),
	}
}

// Process maps one raw event to a lane action. The boolean is false
// when the event is unbound or a duplicate transition for an already
// held (or already released) lane.
func (s *Stage) Process(ev RawEvent) (engine.Action, bool) {
	lane, ok := s.keymap.Lane(ev.Key)
	if !ok {
		return engine.Action{}, false
	}
	if s.held[lane] == ev.Down {
		return engine.Action{}, false
	}
	s.held[lane] = ev.Down
	return engine.Action{Lane: lane, Press: ev.Down, TimeMS: ev.TimeMS}, true
}

// Reset clears held state, used on session restart and checkpoint
// restore so stale holds do not leak across the rewind.
func (s *Stage) Reset() {
	for i := range s.held {
		s.held[i] = false
	}
}
