package engine

import (
	"testing"

	"github.com/Glubus/prism-vsrg/internal/chart"
)

// testChart builds a small 4K chart used across the engine tests:
// three taps and one hold.
func testChart() *chart.Chart {
	return &chart.Chart{
		Title:    "test",
		KeyCount: 4,
		Notes: []chart.Note{
			{TimeMS: 1000, Lane: 0, Kind: chart.KindTap},
			{TimeMS: 1500, Lane: 1, Kind: chart.KindTap},
			{TimeMS: 2000, Lane: 0, Kind: chart.KindHold, HoldEndMS: 2500},
			{TimeMS: 3000, Lane: 2, Kind: chart.KindTap},
		},
	}
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(testChart(), cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e
}

func TestNewRejectsInvalidChart(t *testing.T) {
	_, err := New(&chart.Chart{KeyCount: 4}, DefaultConfig())
	if err == nil {
		t.Fatal("expected error for empty chart")
	}
}

func TestPressInsideMarvWindow(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	// OD 5 Marvelous window is 16.5ms; +10ms lands inside it.
	e.Advance(1010)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 1010})

	if e.Stats().Marv != 1 {
		t.Errorf("expected 1 Marvelous, got stats %+v", e.Stats())
	}
	if e.Score() != 300 {
		t.Errorf("expected score 300, got %d", e.Score())
	}
	combo, maxCombo := e.Combo()
	if combo != 1 || maxCombo != 1 {
		t.Errorf("expected combo 1/1, got %d/%d", combo, maxCombo)
	}
	if e.HeadIndex(0) != 1 {
		t.Errorf("expected lane 0 head at 1, got %d", e.HeadIndex(0))
	}
}

func TestUntouchedNotesMissExactlyOnce(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	e.Advance(10000)

	// Three tap misses plus head and tail of the hold.
	if e.Stats().Miss != 5 {
		t.Errorf("expected 5 misses, got %d", e.Stats().Miss)
	}
	if got := len(e.Results()); got != 5 {
		t.Errorf("expected 5 log entries, got %d", got)
	}

	// Sweeping again must not double-judge anything.
	e.Advance(20000)
	if e.Stats().Miss != 5 {
		t.Errorf("second sweep changed miss count to %d", e.Stats().Miss)
	}

	if e.Score() != 0 {
		t.Errorf("expected score 0 after all misses, got %d", e.Score())
	}
	combo, _ := e.Combo()
	if combo != 0 {
		t.Errorf("expected combo 0, got %d", combo)
	}
}

func TestFirstUnresolvedNoteWins(t *testing.T) {
	c := &chart.Chart{
		KeyCount: 4,
		Notes: []chart.Note{
			{TimeMS: 1000, Lane: 0, Kind: chart.KindTap},
			{TimeMS: 1100, Lane: 0, Kind: chart.KindTap},
		},
	}
	e, err := New(c, DefaultConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// Both notes are inside the window of a press at 1050; the earlier
	// one must be consumed even though the later one is closer in time
	// on neither side.
	e.Advance(1050)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 1050})

	if e.Results()[0].NoteIndex != 0 {
		t.Fatalf("expected note 0 consumed first, got note %d", e.Results()[0].NoteIndex)
	}
	if e.HeadIndex(0) != 1 {
		t.Errorf("expected head 1 after first press, got %d", e.HeadIndex(0))
	}

	// Second press consumes the second note.
	e.Advance(1100)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 1100})
	if e.Results()[1].NoteIndex != 1 {
		t.Errorf("expected note 1 consumed second, got note %d", e.Results()[1].NoteIndex)
	}
	if e.Stats().Judged() != 2 {
		t.Errorf("expected 2 judged, got %d", e.Stats().Judged())
	}
}

func TestVeryEarlyPressConsumesAsMiss(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	// OD 5: Bad is 136ms, Miss is 173ms. A press 150ms early is inside
	// the miss window but outside Bad: the note is consumed as a miss.
	e.Advance(850)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 850})

	if e.Stats().Miss != 1 {
		t.Fatalf("expected 1 miss, got stats %+v", e.Stats())
	}
	if e.HeadIndex(0) != 1 {
		t.Errorf("expected head advanced past consumed note, got %d", e.HeadIndex(0))
	}

	// The sweep must not re-judge the consumed note.
	e.Advance(1400)
	if e.Stats().Miss != 1 {
		t.Errorf("sweep re-judged a consumed note: %+v", e.Stats())
	}
}

func TestGhostTapIgnored(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	// Build a combo first.
	e.Advance(1000)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 1000})
	combo, _ := e.Combo()
	if combo != 1 {
		t.Fatalf("setup: expected combo 1, got %d", combo)
	}

	// Press on a lane with no note anywhere near: far before the next
	// note's miss window.
	e.Apply(Action{Lane: 3, Press: true, TimeMS: 1000})

	if e.Stats().GhostTap != 1 {
		t.Errorf("expected 1 ghost tap, got stats %+v", e.Stats())
	}
	combo, _ = e.Combo()
	if combo != 1 {
		t.Errorf("ghost tap broke combo under ignore policy: %d", combo)
	}
	if e.Score() != 300 {
		t.Errorf("ghost tap changed score: %d", e.Score())
	}
}

func TestGhostTapPenalized(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GhostTaps = GhostPenalize
	e := newTestEngine(t, cfg)

	e.Advance(1000)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 1000})
	e.Apply(Action{Lane: 3, Press: true, TimeMS: 1000})

	combo, _ := e.Combo()
	if combo != 0 {
		t.Errorf("expected penalized ghost tap to break combo, got %d", combo)
	}
	if e.Stats().Miss != 1 {
		t.Errorf("expected ghost recorded as miss, got stats %+v", e.Stats())
	}
	// The penalty never awards or removes score.
	if e.Score() != 300 {
		t.Errorf("penalized ghost tap changed score: %d", e.Score())
	}
	// The upcoming note on lane 3 is untouched by the ghost tap.
	if e.HeadIndex(2) != 0 {
		t.Errorf("ghost tap moved a head cursor")
	}
}

func TestHoldLifecycle(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	e.Advance(2000)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 2000})
	if e.Stats().Marv != 1 {
		t.Fatalf("expected hold head Marvelous, got %+v", e.Stats())
	}

	e.Advance(2500)
	e.Apply(Action{Lane: 0, Press: false, TimeMS: 2500})
	if e.Stats().Marv != 2 {
		t.Fatalf("expected hold release Marvelous, got %+v", e.Stats())
	}
	if e.Score() != 600 {
		t.Errorf("expected head and tail both scored, got %d", e.Score())
	}
	combo, _ := e.Combo()
	if combo != 2 {
		t.Errorf("expected combo 2, got %d", combo)
	}
}

func TestHoldDroppedOnEarlyRelease(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	e.Advance(2000)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 2000})

	// Release 400ms before the hold end: far outside the widened
	// release window (259.5ms at OD 5), so the hold drops.
	e.Apply(Action{Lane: 0, Press: false, TimeMS: 2100})

	if e.Stats().Miss != 1 {
		t.Errorf("expected dropped hold tail miss, got %+v", e.Stats())
	}
	combo, _ := e.Combo()
	if combo != 0 {
		t.Errorf("dropped hold should break combo, got %d", combo)
	}
}

func TestHoldDroppedByTimeout(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	e.Advance(2000)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 2000})

	// Never release; sweep past the release miss window.
	e.Advance(2500 + 300)

	if e.Stats().Miss != 1 {
		t.Errorf("expected timed-out hold tail miss, got %+v", e.Stats())
	}
}

func TestMissedHoldHeadMissesTailToo(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	// Sweep past the hold head without ever pressing.
	e.Advance(2000 + 200)

	// Taps at 1000 and 1500 missed, hold head and tail missed.
	if e.Stats().Miss != 4 {
		t.Errorf("expected 4 misses, got %+v", e.Stats())
	}
}

func TestTimeNeverMovesBackwards(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	e.Advance(1500)
	before := len(e.Results())
	e.Advance(500) // ignored
	e.Advance(1500)
	if len(e.Results()) != before {
		t.Errorf("backwards Advance changed the judgement log")
	}
}

func TestHeadIndexMonotonic(t *testing.T) {
	c := &chart.Chart{
		KeyCount: 4,
		Notes: []chart.Note{
			{TimeMS: 1000, Lane: 0, Kind: chart.KindTap},
			{TimeMS: 1200, Lane: 0, Kind: chart.KindTap},
			{TimeMS: 1400, Lane: 0, Kind: chart.KindTap},
		},
	}
	e, err := New(c, DefaultConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	prev := 0
	check := func() {
		if h := e.HeadIndex(0); h < prev {
			t.Fatalf("head regressed from %d to %d", prev, h)
		} else {
			prev = h
		}
	}

	e.Advance(1000)
	check()
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 1000})
	check()
	e.Advance(1450)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 1450})
	check()
	e.Advance(5000)
	check()
}

func TestAccuracyWeighting(t *testing.T) {
	c := &chart.Chart{
		KeyCount: 4,
		Notes: []chart.Note{
			{TimeMS: 1000, Lane: 0, Kind: chart.KindTap},
			{TimeMS: 2000, Lane: 1, Kind: chart.KindTap},
		},
	}
	e, err := New(c, DefaultConfig())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// One Marvelous, one Great: (300 + 200) / 600 = 83.33%.
	e.Advance(1000)
	e.Apply(Action{Lane: 0, Press: true, TimeMS: 1000})
	e.Advance(2060)
	e.Apply(Action{Lane: 1, Press: true, TimeMS: 2060})

	acc := e.Stats().Accuracy()
	if acc < 83.3 || acc > 83.4 {
		t.Errorf("expected accuracy ~83.33, got %.4f", acc)
	}
}

func TestFinished(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	if e.Finished() {
		t.Fatal("finished before start")
	}
	e.Advance(3000 + 2000)
	if e.Finished() {
		t.Fatal("finished exactly at grace boundary")
	}
	e.Advance(3000 + 2001)
	if !e.Finished() {
		t.Fatal("expected finished past duration plus grace")
	}
}
