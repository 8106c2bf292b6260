package engine

import "testing"

func TestSnapshotNoteStates(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	count := func(s Snapshot) (resolved, active, upcoming int) {
		for _, n := range s.Notes {
			switch n.State {
			case NoteResolved:
				resolved++
			case NoteActiveHold:
				active++
			case NoteUpcoming:
				upcoming++
			}
		}
		return
	}

	e.Advance(1000)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 1000})

	// Just-judged note still renders; the rest are upcoming.
	resolved, active, upcoming := count(e.Snapshot(1.0, 10000))
	if resolved != 1 || active != 0 || upcoming != 3 {
		t.Errorf("at 1000: resolved/active/upcoming = %d/%d/%d, want 1/0/3",
			resolved, active, upcoming)
	}

	// Start the hold; notes that ended over 200ms ago leave the view.
	e.Advance(2000)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 2000})
	resolved, active, upcoming = count(e.Snapshot(1.0, 10000))
	if resolved != 0 || active != 1 || upcoming != 1 {
		t.Errorf("at 2000: resolved/active/upcoming = %d/%d/%d, want 0/1/1",
			resolved, active, upcoming)
	}
}

func TestSnapshotHorizonFiltersFarNotes(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	// At -3000 with a 500ms scroll window the first note (1000ms) is
	// outside the horizon (-3000 + 500 + 2000 = -500).
	s := e.Snapshot(1.0, 500)
	if len(s.Notes) != 0 {
		t.Errorf("expected no visible notes during pre-roll, got %d", len(s.Notes))
	}

	e.Advance(0)
	s = e.Snapshot(1.0, 500)
	if len(s.Notes) == 0 {
		t.Error("expected notes visible near time zero")
	}
}

func TestSnapshotAggregates(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	e.Advance(1000)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 1000})

	s := e.Snapshot(1.25, 600)
	if s.Score != 300 || s.Combo != 1 || s.MaxCombo != 1 {
		t.Errorf("aggregates wrong: score %d combo %d/%d", s.Score, s.Combo, s.MaxCombo)
	}
	if s.Rate != 1.25 {
		t.Errorf("rate not carried: %.2f", s.Rate)
	}
	if s.KeyCount != 4 {
		t.Errorf("key count wrong: %d", s.KeyCount)
	}
	// 5 judgeable objects (3 taps + hold head and tail), 1 judged.
	if s.Remaining != 4 {
		t.Errorf("remaining = %d, want 4", s.Remaining)
	}
	if !s.HasJudgement || s.LastJudgement != JudgeMarv {
		t.Errorf("last judgement not surfaced: %+v", s.LastJudgement)
	}
	if s.TimeMS != 1000 {
		t.Errorf("snapshot time %.1f, want 1000", s.TimeMS)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	e.Advance(1000)
	s := e.Snapshot(1.0, 600)

	// Mutating snapshot slices must not touch engine state.
	if len(s.KeysHeld) > 0 {
		s.KeysHeld[0] = true
	}
	s2 := e.Snapshot(1.0, 600)
	if s2.KeysHeld[0] {
		t.Error("snapshot shares keysHeld backing array with engine")
	}
}
