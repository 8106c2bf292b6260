// Package replay captures raw timed inputs during play and resimulates
// them through the judgement engine. A replay plus the chart and hit
// window configuration fully determines the judgement sequence; nothing
// in this package reads the wall clock or depends on goroutine timing.
package replay

import (
	"errors"
	"fmt"

	"github.com/Glubus/prism-vsrg/internal/engine"
)

// FormatVersion guards stored blobs against shape changes.
const FormatVersion = 1

var (
	ErrVersion      = errors.New("replay: unsupported format version")
	ErrNonMonotonic = errors.New("replay: input timestamps are not monotonic")
	ErrLaneRange    = errors.New("replay: input lane out of range")
)

// Input is one persisted key transition, timestamped on the simulation
// clock relative to session start.
type Input struct {
	TimeMS float64 `json:"t"`
	Lane   int     `json:"l"`
	Press  bool    `json:"p"`
}

// Data is the complete persisted replay: raw inputs only. Judgements
// are not stored; resimulation recomputes them, which is what allows
// re-scoring under a different hit window configuration.
type Data struct {
	Version     int               `json:"version"`
	Rate        float64           `json:"rate"`
	WindowMode  engine.WindowMode `json:"window_mode"`
	WindowValue float64           `json:"window_value"`
	Practice    bool              `json:"practice,omitempty"`
	Checkpoints []float64         `json:"checkpoints,omitempty"`
	Inputs      []Input           `json:"inputs"`
}

// Validate rejects a malformed replay wholesale: partial resimulation
// of a corrupt input stream would produce a plausible-looking but
// wrong score.
func (d *Data) Validate(keyCount int) error {
	if d.Version != FormatVersion {
		return fmt.Errorf("%w: %d", ErrVersion, d.Version)
	}
	if d.Rate < 0.5 || d.Rate > 2.0 {
		return fmt.Errorf("replay: rate %.2f out of range", d.Rate)
	}
	prev := -1e18
	for i, in := range d.Inputs {
		if in.TimeMS < prev {
			return fmt.Errorf("%w: input %d at %.3fms after %.3fms", ErrNonMonotonic, i, in.TimeMS, prev)
		}
		prev = in.TimeMS
		if in.Lane < 0 || in.Lane >= keyCount {
			return fmt.Errorf("%w: input %d lane %d (%dK chart)", ErrLaneRange, i, in.Lane, keyCount)
		}
	}
	return nil
}
