// Package chart defines the immutable note sequence consumed by the
// gameplay engine, plus a thin YAML loader for the on-disk chart format.
// Charts are loaded once per play session and never mutated afterwards.
package chart

// Kind distinguishes plain taps from the start of a hold note.
// Hold ends are not separate notes; a hold note carries its end time.
type Kind int

const (
	KindTap Kind = iota
	KindHold
)

// String returns a human-readable name for the note kind.
func (k Kind) String() string {
	switch k {
	case KindTap:
		return "tap"
	case KindHold:
		return "hold"
	default:
		return "unknown"
	}
}

// Note is a single chart object. TimeMS is the target hit time on the
// simulation clock. For holds, HoldEndMS is the release target time.
type Note struct {
	TimeMS    float64
	Lane      int
	Kind      Kind
	HoldEndMS float64
}

// IsHold reports whether the note requires a matching release.
func (n Note) IsHold() bool {
	return n.Kind == KindHold
}

// Duration returns the hold length in milliseconds (0 for taps).
func (n Note) Duration() float64 {
	if n.Kind != KindHold {
		return 0
	}
	return n.HoldEndMS - n.TimeMS
}
