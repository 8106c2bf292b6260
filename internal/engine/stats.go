package engine

// Stats is the per-session judgement tier histogram.
type Stats struct {
	Marv     int
	Perfect  int
	Great    int
	Good     int
	Bad      int
	Miss     int
	GhostTap int
}

// Add records one judgement in the histogram.
func (s *Stats) Add(j Judgement) {
	switch j {
	case JudgeMarv:
		s.Marv++
	case JudgePerfect:
		s.Perfect++
	case JudgeGreat:
		s.Great++
	case JudgeGood:
		s.Good++
	case JudgeBad:
		s.Bad++
	case JudgeMiss:
		s.Miss++
	case JudgeGhostTap:
		s.GhostTap++
	}
}

// Judged returns the number of resolved notes. Ghost taps consume no
// note and are excluded.
func (s Stats) Judged() int {
	return s.Marv + s.Perfect + s.Great + s.Good + s.Bad + s.Miss
}

// Accuracy returns the score-weighted accuracy in percent (0-100).
func (s Stats) Accuracy() float64 {
	judged := s.Judged()
	if judged == 0 {
		return 0
	}
	earned := 300*(s.Marv+s.Perfect) + 200*s.Great + 100*s.Good + 50*s.Bad
	return float64(earned) / float64(300*judged) * 100.0
}

// Result is a single append-only judgement log entry. Entries are
// never mutated; the log drives live stats, the result screen, and
// post-hoc timing analysis.
type Result struct {
	// NoteIndex references the chart note, -1 for ghost taps.
	NoteIndex int
	Lane      int
	// DeltaMS is the signed timing error: negative = early.
	DeltaMS   float64
	Judgement Judgement
	// ScoreDelta is the score awarded by this entry.
	ScoreDelta int
	// Release marks hold-end judgements (including dropped holds).
	Release bool
	// TimeMS is the simulation time at which the entry was emitted.
	// Checkpoint restore truncates the log on this field.
	TimeMS float64
}
