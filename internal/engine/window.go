// Package engine implements the real-time gameplay core: the smoothed
// audio-synchronized simulation clock, note judgement with per-lane head
// cursors, score/combo/accuracy tracking, practice checkpoints, and the
// per-tick render snapshot.
package engine

import "fmt"

// Judgement is the discrete outcome of a timing delta.
type Judgement int

const (
	JudgeMarv Judgement = iota
	JudgePerfect
	JudgeGreat
	JudgeGood
	JudgeBad
	JudgeMiss
	JudgeGhostTap
)

// String returns the display name for the judgement tier.
func (j Judgement) String() string {
	switch j {
	case JudgeMarv:
		return "Marvelous"
	case JudgePerfect:
		return "Perfect"
	case JudgeGreat:
		return "Great"
	case JudgeGood:
		return "Good"
	case JudgeBad:
		return "Bad"
	case JudgeMiss:
		return "Miss"
	case JudgeGhostTap:
		return "Ghost"
	default:
		return "Unknown"
	}
}

// Score returns the score value awarded for the tier.
func (j Judgement) Score() int {
	switch j {
	case JudgeMarv, JudgePerfect:
		return 300
	case JudgeGreat:
		return 200
	case JudgeGood:
		return 100
	case JudgeBad:
		return 50
	default:
		return 0
	}
}

// BreaksCombo reports whether the judgement resets the combo counter.
func (j Judgement) BreaksCombo() bool {
	return j == JudgeMiss
}

// WindowMode selects how hit window thresholds are derived from a
// single configuration value.
type WindowMode int

const (
	// ModeOsuOD derives windows from an osu!mania Overall Difficulty value.
	ModeOsuOD WindowMode = iota
	// ModeEtternaJudge derives windows from an Etterna/Quaver judge level.
	ModeEtternaJudge
)

func (m WindowMode) String() string {
	switch m {
	case ModeOsuOD:
		return "od"
	case ModeEtternaJudge:
		return "judge"
	default:
		return "unknown"
	}
}

// ParseWindowMode converts a config string into a WindowMode.
func ParseWindowMode(s string) (WindowMode, error) {
	switch s {
	case "od", "osu", "":
		return ModeOsuOD, nil
	case "judge", "etterna":
		return ModeEtternaJudge, nil
	default:
		return ModeOsuOD, fmt.Errorf("engine: unknown hit window mode %q", s)
	}
}

// Window holds the symmetric tier thresholds in milliseconds. A delta
// resolves to the tightest tier whose threshold encloses it.
type Window struct {
	MarvMS    float64
	PerfectMS float64
	GreatMS   float64
	GoodMS    float64
	BadMS     float64
	MissMS    float64
}

// DefaultWindow returns the baseline thresholds.
func DefaultWindow() Window {
	return Window{
		MarvMS:    16.0,
		PerfectMS: 50.0,
		GreatMS:   65.0,
		GoodMS:    100.0,
		BadMS:     150.0,
		MissMS:    200.0,
	}
}

// WindowFromOsuOD builds hit windows from an osu!mania OD value (0-10).
func WindowFromOsuOD(od float64) Window {
	if od < 0 {
		od = 0
	}
	if od > 10 {
		od = 10
	}
	return Window{
		MarvMS:    16.5,
		PerfectMS: 64.0 - 3.0*od,
		GreatMS:   97.0 - 3.0*od,
		GoodMS:    127.0 - 3.0*od,
		BadMS:     151.0 - 3.0*od,
		MissMS:    188.0 - 3.0*od,
	}
}

// etternaScale maps judge level 1-9 to the window scale factor.
// Judge 4 is the 1.0 baseline; the miss boundary does not scale.
var etternaScale = [9]float64{1.50, 1.33, 1.16, 1.00, 0.84, 0.66, 0.50, 0.33, 0.20}

// WindowFromEtternaJudge builds hit windows from an Etterna judge level (1-9).
func WindowFromEtternaJudge(j int) Window {
	if j < 1 {
		j = 1
	}
	if j > 9 {
		j = 9
	}
	scale := etternaScale[j-1]
	return Window{
		MarvMS:    22.5 * scale,
		PerfectMS: 45.0 * scale,
		GreatMS:   90.0 * scale,
		GoodMS:    135.0 * scale,
		BadMS:     180.0 * scale,
		MissMS:    180.0,
	}
}

// WindowFor resolves the configured mode/value pair into thresholds.
func WindowFor(mode WindowMode, value float64) Window {
	switch mode {
	case ModeEtternaJudge:
		return WindowFromEtternaJudge(int(value))
	default:
		return WindowFromOsuOD(value)
	}
}

// releaseScale widens windows for hold releases; letting go of a hold
// is judged more leniently than hitting its head.
const releaseScale = 1.5

// Release returns the widened window used for hold-end judgement.
func (w Window) Release() Window {
	r := Window{
		MarvMS:    w.MarvMS * releaseScale,
		PerfectMS: w.PerfectMS * releaseScale,
		GreatMS:   w.GreatMS * releaseScale,
		GoodMS:    w.GoodMS * releaseScale,
		BadMS:     w.BadMS * releaseScale,
		MissMS:    w.MissMS * releaseScale,
	}
	return r
}

// Judge classifies a timing delta (action time minus target time, so
// negative = early). The boolean reports whether the note is consumed:
// a press far enough ahead of the note is a ghost tap and leaves the
// note unresolved.
func (w Window) Judge(deltaMS float64) (Judgement, bool) {
	if deltaMS < -w.MissMS {
		return JudgeGhostTap, false
	}
	// Early press inside the miss window but outside the bad window
	// consumes the note as a miss.
	if deltaMS < -w.BadMS {
		return JudgeMiss, true
	}
	if deltaMS > w.BadMS {
		return JudgeMiss, true
	}

	abs := deltaMS
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= w.MarvMS:
		return JudgeMarv, true
	case abs <= w.PerfectMS:
		return JudgePerfect, true
	case abs <= w.GreatMS:
		return JudgeGreat, true
	case abs <= w.GoodMS:
		return JudgeGood, true
	default:
		return JudgeBad, true
	}
}
