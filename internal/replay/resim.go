package replay

import (
	"github.com/Glubus/prism-vsrg/internal/chart"
	"github.com/Glubus/prism-vsrg/internal/engine"
)

// Outcome is the complete result of a resimulation: final stats plus
// the full judgement log for timing analysis.
type Outcome struct {
	Score    int
	MaxCombo int
	Accuracy float64
	Stats    engine.Stats
	Results  []engine.Result
}

// Resimulate re-drives the judgement engine with the recorded inputs
// under the recorded hit window configuration. Identical inputs always
// yield byte-identical judgement sequences: the engine is advanced to
// each input's timestamp in order, exactly the discipline the live
// session loop follows, with no clock or channel in the path.
func Resimulate(d *Data, c *chart.Chart) (*Outcome, error) {
	return resimulate(d, c, d.WindowMode, d.WindowValue)
}

// Rejudge resimulates under a different hit window configuration,
// re-scoring the same inputs.
func Rejudge(d *Data, c *chart.Chart, mode engine.WindowMode, value float64) (*Outcome, error) {
	return resimulate(d, c, mode, value)
}

func resimulate(d *Data, c *chart.Chart, mode engine.WindowMode, value float64) (*Outcome, error) {
	if err := d.Validate(c.KeyCount); err != nil {
		return nil, err
	}
	eng, err := engine.New(c, engine.Config{
		WindowMode:  mode,
		WindowValue: value,
	})
	if err != nil {
		return nil, err
	}

	for _, in := range d.Inputs {
		eng.Advance(in.TimeMS)
		eng.Apply(engine.Action{Lane: in.Lane, Press: in.Press, TimeMS: in.TimeMS})
	}

	// Final sweep: every untouched note resolves to its miss.
	eng.Advance(c.Duration() + eng.Window().MissMS*2 + 1)

	_, maxCombo := eng.Combo()
	stats := eng.Stats()
	return &Outcome{
		Score:    eng.Score(),
		MaxCombo: maxCombo,
		Accuracy: stats.Accuracy(),
		Stats:    stats,
		Results:  eng.Results(),
	}, nil
}
