package replay

import "github.com/Glubus/prism-vsrg/internal/engine"

// Recorder appends every lane action it observes. It is a pure tap on
// the input stream: no judgement logic, independent of scoring.
type Recorder struct {
	data Data
}

// NewRecorder starts a recording with the session's configuration.
func NewRecorder(rate float64, mode engine.WindowMode, value float64, practice bool) *Recorder {
	return &Recorder{
		data: Data{
			Version:     FormatVersion,
			Rate:        rate,
			WindowMode:  mode,
			WindowValue: value,
			Practice:    practice,
		},
	}
}

// Observe records one lane action.
func (r *Recorder) Observe(a engine.Action) {
	r.data.Inputs = append(r.data.Inputs, Input{
		TimeMS: a.TimeMS,
		Lane:   a.Lane,
		Press:  a.Press,
	})
}

// Checkpoint records a practice checkpoint placement.
func (r *Recorder) Checkpoint(timeMS float64) {
	r.data.Checkpoints = append(r.data.Checkpoints, timeMS)
}

// TruncateAfter drops inputs at or after the given time. Used on
// checkpoint restore so the recording matches the rewound session.
func (r *Recorder) TruncateAfter(timeMS float64) {
	kept := r.data.Inputs[:0]
	for _, in := range r.data.Inputs {
		if in.TimeMS < timeMS {
			kept = append(kept, in)
		}
	}
	r.data.Inputs = kept
}

// Data returns the recording for persistence at session end.
func (r *Recorder) Data() Data {
	return r.data
}
