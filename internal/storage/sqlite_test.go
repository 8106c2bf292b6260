package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Glubus/prism-vsrg/internal/engine"
	"github.com/Glubus/prism-vsrg/internal/replay"
	"github.com/Glubus/prism-vsrg/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testResult(hash string, score int) session.FinalData {
	return session.FinalData{
		ChartHash:   hash,
		ChartTitle:  "Test Song",
		Score:       score,
		MaxCombo:    42,
		Accuracy:    97.5,
		Stats:       engine.Stats{Marv: 30, Great: 10, Miss: 2},
		Rate:        1.15,
		WindowMode:  engine.ModeOsuOD,
		WindowValue: 5.0,
		Replay: replay.Data{
			Version:     replay.FormatVersion,
			Rate:        1.15,
			WindowMode:  engine.ModeOsuOD,
			WindowValue: 5.0,
			Inputs: []replay.Input{
				{TimeMS: 1002.5, Lane: 0, Press: true},
				{TimeMS: 1080, Lane: 0, Press: false},
			},
		},
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.Close()
}

func TestSaveResultAndTopScores(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100000, 50000, 200000} {
		if _, err := store.SaveResult(testResult("chart-a", score)); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}
	// Different chart should not bleed into chart-a queries.
	if _, err := store.SaveResult(testResult("chart-b", 500000)); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}

	scores, err := store.TopScores("chart-a", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	// Sorted descending by score.
	if scores[0].Score != 200000 || scores[1].Score != 100000 || scores[2].Score != 50000 {
		t.Errorf("wrong ordering: %d %d %d", scores[0].Score, scores[1].Score, scores[2].Score)
	}

	top := scores[0]
	if top.ChartHash != "chart-a" {
		t.Errorf("chart hash = %q, want chart-a", top.ChartHash)
	}
	if top.ChartTitle != "Test Song" {
		t.Errorf("chart title = %q", top.ChartTitle)
	}
	if top.Accuracy != 97.5 {
		t.Errorf("accuracy = %.2f, want 97.5", top.Accuracy)
	}
	if top.MaxCombo != 42 {
		t.Errorf("max combo = %d, want 42", top.MaxCombo)
	}
	if top.Rate != 1.15 {
		t.Errorf("rate = %.2f, want 1.15", top.Rate)
	}
	if top.WindowMode != engine.ModeOsuOD || top.WindowValue != 5.0 {
		t.Errorf("window = %v/%.1f, want od/5.0", top.WindowMode, top.WindowValue)
	}
	if top.Stats.Marv != 30 || top.Stats.Great != 10 || top.Stats.Miss != 2 {
		t.Errorf("stats not round-tripped: %+v", top.Stats)
	}
	if top.Practice {
		t.Error("non-practice result flagged as practice")
	}
}

func TestTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if _, err := store.SaveResult(testResult("chart-a", 1000*(i+1))); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	scores, err := store.TopScores("chart-a", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Errorf("Expected 2 scores, got %d", len(scores))
	}
}

func TestRecentScores(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveResult(testResult("chart-a", 100)); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	if _, err := store.SaveResult(testResult("chart-b", 50)); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}

	scores, err := store.RecentScores(10)
	if err != nil {
		t.Fatalf("RecentScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("Expected 2 scores, got %d", len(scores))
	}
	// Newest first, regardless of score value.
	if scores[0].ChartHash != "chart-b" {
		t.Errorf("first recent = %q, want chart-b", scores[0].ChartHash)
	}
}

func TestHighScore(t *testing.T) {
	store := openTestStore(t)

	best, err := store.HighScore("never-played")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("unplayed chart high score = %d, want 0", best)
	}

	store.SaveResult(testResult("chart-a", 300))
	store.SaveResult(testResult("chart-a", 700))
	store.SaveResult(testResult("chart-a", 500))

	best, err = store.HighScore("chart-a")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if best != 700 {
		t.Errorf("high score = %d, want 700", best)
	}
}

func TestReplayRoundTrip(t *testing.T) {
	store := openTestStore(t)

	final := testResult("chart-a", 1234)
	final.Replay.Practice = true
	final.Replay.Checkpoints = []float64{5000, 25000}

	id, err := store.SaveResult(final)
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}

	data, err := store.LoadReplay(id)
	if err != nil {
		t.Fatalf("LoadReplay() failed: %v", err)
	}
	if data.Version != replay.FormatVersion {
		t.Errorf("version = %d, want %d", data.Version, replay.FormatVersion)
	}
	if data.Rate != 1.15 {
		t.Errorf("rate = %.2f, want 1.15", data.Rate)
	}
	if !data.Practice {
		t.Error("practice flag lost")
	}
	if len(data.Checkpoints) != 2 || data.Checkpoints[1] != 25000 {
		t.Errorf("checkpoints not round-tripped: %v", data.Checkpoints)
	}
	if len(data.Inputs) != 2 {
		t.Fatalf("Expected 2 inputs, got %d", len(data.Inputs))
	}
	if data.Inputs[0].TimeMS != 1002.5 || data.Inputs[0].Lane != 0 || !data.Inputs[0].Press {
		t.Errorf("first input not round-tripped: %+v", data.Inputs[0])
	}

	// Practice flag lands on the score row too.
	scores, err := store.TopScores("chart-a", 1)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 || !scores[0].Practice {
		t.Error("practice flag missing from score row")
	}
}

func TestLoadReplayMissing(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.LoadReplay(999); err == nil {
		t.Error("LoadReplay() on an unknown score id should fail")
	}
}
