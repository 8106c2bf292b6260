package engine

import "testing"

func TestJudgeTierBoundaries(t *testing.T) {
	w := DefaultWindow()

	cases := []struct {
		delta    float64
		want     Judgement
		consumed bool
	}{
		{0, JudgeMarv, true},
		{16, JudgeMarv, true},
		{-16, JudgeMarv, true},
		{16.1, JudgePerfect, true},
		{50, JudgePerfect, true},
		{-50, JudgePerfect, true},
		{65, JudgeGreat, true},
		{100, JudgeGood, true},
		{150, JudgeBad, true},
		{-150, JudgeBad, true},
		{151, JudgeMiss, true},
		{200, JudgeMiss, true},
		{-151, JudgeMiss, true}, // early press inside miss window consumes
		{-200, JudgeMiss, true},
		{-201, JudgeGhostTap, false}, // ahead of the miss window: not consumed
	}
	for _, c := range cases {
		got, consumed := w.Judge(c.delta)
		if got != c.want || consumed != c.consumed {
			t.Errorf("Judge(%+.1f) = %v/%v, want %v/%v",
				c.delta, got, consumed, c.want, c.consumed)
		}
	}
}

func TestWindowFromOsuOD(t *testing.T) {
	w := WindowFromOsuOD(5)
	if w.MarvMS != 16.5 {
		t.Errorf("OD5 Marv = %.1f, want 16.5", w.MarvMS)
	}
	if w.PerfectMS != 49 {
		t.Errorf("OD5 Perfect = %.1f, want 49", w.PerfectMS)
	}
	if w.MissMS != 173 {
		t.Errorf("OD5 Miss = %.1f, want 173", w.MissMS)
	}

	// Higher OD means tighter windows.
	tight := WindowFromOsuOD(10)
	if tight.PerfectMS >= w.PerfectMS {
		t.Errorf("OD10 Perfect %.1f not tighter than OD5 %.1f", tight.PerfectMS, w.PerfectMS)
	}

	// Out-of-range values clamp instead of producing negative windows.
	if got := WindowFromOsuOD(25); got != tight {
		t.Errorf("OD above 10 should clamp to OD10")
	}
}

func TestWindowFromEtternaJudge(t *testing.T) {
	// Judge 4 is the unscaled baseline.
	j4 := WindowFromEtternaJudge(4)
	if j4.MarvMS != 22.5 || j4.PerfectMS != 45 || j4.BadMS != 180 {
		t.Errorf("judge 4 baseline wrong: %+v", j4)
	}

	// The miss boundary never scales with judge level.
	j9 := WindowFromEtternaJudge(9)
	if j9.MissMS != 180 {
		t.Errorf("judge 9 Miss = %.1f, want 180", j9.MissMS)
	}
	if j9.MarvMS != 22.5*0.20 {
		t.Errorf("judge 9 Marv = %.2f, want %.2f", j9.MarvMS, 22.5*0.20)
	}

	// Clamping.
	if WindowFromEtternaJudge(0) != WindowFromEtternaJudge(1) {
		t.Error("judge below 1 should clamp")
	}
	if WindowFromEtternaJudge(12) != j9 {
		t.Error("judge above 9 should clamp")
	}
}

func TestReleaseWindowIsWider(t *testing.T) {
	w := DefaultWindow()
	r := w.Release()
	if r.PerfectMS != w.PerfectMS*1.5 {
		t.Errorf("release Perfect = %.1f, want %.1f", r.PerfectMS, w.PerfectMS*1.5)
	}
	if r.MissMS != w.MissMS*1.5 {
		t.Errorf("release Miss = %.1f, want %.1f", r.MissMS, w.MissMS*1.5)
	}
}

func TestParseWindowMode(t *testing.T) {
	if m, err := ParseWindowMode("od"); err != nil || m != ModeOsuOD {
		t.Errorf("ParseWindowMode(od) = %v, %v", m, err)
	}
	if m, err := ParseWindowMode("judge"); err != nil || m != ModeEtternaJudge {
		t.Errorf("ParseWindowMode(judge) = %v, %v", m, err)
	}
	if _, err := ParseWindowMode("bogus"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestJudgementScores(t *testing.T) {
	if JudgeMarv.Score() != 300 || JudgePerfect.Score() != 300 {
		t.Error("Marvelous and Perfect must both score 300")
	}
	if JudgeGreat.Score() != 200 || JudgeGood.Score() != 100 || JudgeBad.Score() != 50 {
		t.Error("mid-tier scores wrong")
	}
	if JudgeMiss.Score() != 0 || JudgeGhostTap.Score() != 0 {
		t.Error("miss and ghost must score 0")
	}
	if !JudgeMiss.BreaksCombo() || JudgeBad.BreaksCombo() {
		t.Error("only miss breaks combo")
	}
}
