package chart

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
)

// Validation failures are structural: a chart that trips one of these
// never enters gameplay, because HeadIndex monotonicity and the miss
// sweep both depend on a sorted, in-range note sequence.
var (
	ErrEmpty    = errors.New("chart: note sequence is empty")
	ErrUnsorted = errors.New("chart: notes are not ordered by time")
)

// Chart is the full per-session input to the engine: an ordered-by-time
// note sequence plus the metadata the collaborating subsystems need.
type Chart struct {
	Title     string
	Artist    string
	Version   string
	AudioPath string
	KeyCount  int
	BPM       float64

	// MinRate and MaxRate bound the playback rate multiplier.
	MinRate float64
	MaxRate float64

	Notes []Note
}

// Validate checks the structural invariants the engine depends on.
// It is fatal at session construction; a failing chart aborts entering
// the Game state.
func (c *Chart) Validate() error {
	if len(c.Notes) == 0 {
		return ErrEmpty
	}
	if c.KeyCount < 4 || c.KeyCount > 7 {
		return fmt.Errorf("chart: unsupported key count %d", c.KeyCount)
	}
	prev := math.Inf(-1)
	for i, n := range c.Notes {
		if n.TimeMS < prev {
			return fmt.Errorf("%w: note %d at %.1fms after %.1fms", ErrUnsorted, i, n.TimeMS, prev)
		}
		prev = n.TimeMS
		if n.Lane < 0 || n.Lane >= c.KeyCount {
			return fmt.Errorf("chart: note %d lane %d out of range for %dK", i, n.Lane, c.KeyCount)
		}
		if n.Kind == KindHold && n.HoldEndMS <= n.TimeMS {
			return fmt.Errorf("chart: note %d hold end %.1fms not after start %.1fms", i, n.HoldEndMS, n.TimeMS)
		}
	}
	return nil
}

// Duration returns the time of the last chart object in milliseconds,
// including hold tails.
func (c *Chart) Duration() float64 {
	var d float64
	for _, n := range c.Notes {
		end := n.TimeMS
		if n.Kind == KindHold {
			end = n.HoldEndMS
		}
		if end > d {
			d = end
		}
	}
	return d
}

// NoteCount returns the number of judgeable objects: taps count once,
// holds count twice (head and release).
func (c *Chart) NoteCount() int {
	count := 0
	for _, n := range c.Notes {
		count++
		if n.Kind == KindHold {
			count++
		}
	}
	return count
}

// Hash returns a stable identifier for the note data, used to key
// scores and replays in storage. Metadata is excluded so renaming a
// chart does not orphan its scores.
func (c *Chart) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\n", c.KeyCount)
	for _, n := range c.Notes {
		fmt.Fprintf(h, "%.3f:%d:%d:%.3f\n", n.TimeMS, n.Lane, n.Kind, n.HoldEndMS)
	}
	return hex.EncodeToString(h.Sum(nil))
}
