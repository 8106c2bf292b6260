package engine

// Practice mode checkpoints. Placement is rate-limited; restore rewinds
// to one second before the checkpoint so the player has run-up time.
const (
	checkpointCooldownMS = 15000.0
	checkpointRewindMS   = 1000.0
)

// PlaceCheckpoint records the current simulation time as a checkpoint.
// Returns false when practice mode is off or the cooldown has not
// elapsed since the previous placement.
func (e *Engine) PlaceCheckpoint() bool {
	if !e.cfg.PracticeMode {
		return false
	}
	if e.nowMS-e.lastCheckpointMS < checkpointCooldownMS {
		return false
	}
	e.checkpoints = append(e.checkpoints, e.nowMS)
	e.lastCheckpointMS = e.nowMS
	return true
}

// Checkpoints returns the placed checkpoint times.
func (e *Engine) Checkpoints() []float64 { return e.checkpoints }

// RestoreCheckpoint rewinds the engine to one second before the most
// recent checkpoint. The judgement log is truncated at the restore time
// and every aggregate (score, combo, stats, HP, head cursors, hold
// state) is rebuilt from the surviving entries, so judgements from the
// discarded interval are dropped exactly once with no partial rollback.
// Returns the restored simulation time, or false when no checkpoint
// exists.
func (e *Engine) RestoreCheckpoint() (float64, bool) {
	if !e.cfg.PracticeMode || len(e.checkpoints) == 0 {
		return 0, false
	}
	cp := e.checkpoints[len(e.checkpoints)-1]
	retry := cp - checkpointRewindMS
	if retry < 0 {
		retry = 0
	}

	kept := e.results[:0:0]
	for _, r := range e.results {
		if r.TimeMS < retry {
			kept = append(kept, r)
		}
	}
	e.rebuild(kept, retry)
	return retry, true
}

// rebuild resets all mutable state and refolds the given log. This is
// the single source of truth for what a log prefix implies, which keeps
// restore atomic: either every post-restore judgement is gone or none.
func (e *Engine) rebuild(log []Result, nowMS float64) {
	for i := range e.notes {
		e.notes[i] = noteState{}
	}
	for lane := range e.head {
		e.head[lane] = 0
		e.activeHold[lane] = -1
		e.keysHeld[lane] = false
	}
	e.score = 0
	e.combo = 0
	e.maxCombo = 0
	e.stats = Stats{}
	e.hp = hpMax
	e.results = nil
	e.lastJudge = 0
	e.lastDelta = 0
	e.hasJudged = false
	e.inputTimes = nil
	e.nps = 0
	e.nowMS = nowMS

	for _, r := range log {
		if r.NoteIndex >= 0 {
			st := &e.notes[r.NoteIndex]
			if r.Release {
				st.tailResolved = true
				st.tailJudge = r.Judgement
				if e.activeHold[r.Lane] == r.NoteIndex {
					e.activeHold[r.Lane] = -1
				}
			} else {
				st.headResolved = true
				st.headJudge = r.Judgement
				if e.chart.Notes[r.NoteIndex].IsHold() {
					if r.Judgement != JudgeMiss {
						e.activeHold[r.Lane] = r.NoteIndex
					}
				} else {
					st.tailResolved = true
				}
			}
		}
		e.results = append(e.results, r)
		e.fold(r)
	}

	// Head cursors point at the first note with an unresolved head.
	for lane, seq := range e.laneNotes {
		h := 0
		for h < len(seq) && e.notes[seq[h]].headResolved {
			h++
		}
		e.head[lane] = h
	}
}
