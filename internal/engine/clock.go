package engine

// Drift correction thresholds. Gameplay timing tracks the audio
// device's actual output, not wall clock: buffering latency is absorbed
// by the soft correction instead of fought with snapping.
const (
	hardSyncMS    = 80.0
	softSyncMS    = 5.0
	softSyncPull  = 0.35
	preRollMS     = 3000.0
	minRate       = 0.5
	maxRate       = 2.0
)

// Clock maintains the smoothed simulation time reconciled against the
// audio device's reported playback position.
type Clock struct {
	simMS float64
	rate  float64

	// synced flips once the first audio signal is seen. Before that the
	// clock free-runs through the pre-roll; after that, losing the
	// signal freezes advancement rather than extrapolating blindly.
	synced bool
}

// NewClock creates a clock starting at the pre-roll offset before the
// first note. The rate multiplier is clamped to the supported range.
func NewClock(rate float64) *Clock {
	return &Clock{
		simMS: -preRollMS,
		rate:  ClampRate(rate),
	}
}

// ClampRate bounds a playback rate multiplier to the supported range.
func ClampRate(rate float64) float64 {
	if rate < minRate {
		return minRate
	}
	if rate > maxRate {
		return maxRate
	}
	return rate
}

// Rate returns the playback rate multiplier.
func (c *Clock) Rate() float64 { return c.rate }

// NowMS returns the current simulation time in milliseconds.
func (c *Clock) NowMS() float64 { return c.simMS }

// Tick advances the simulation clock by dt seconds and reconciles it
// against the reported audio position. hasAudio=false means the audio
// subsystem has no time signal; once synced, the clock freezes until
// the signal resumes.
func (c *Clock) Tick(dtSeconds float64, audioMS float64, hasAudio bool) float64 {
	if c.synced && !hasAudio {
		return c.simMS
	}

	c.simMS += dtSeconds * 1000.0 * c.rate

	if hasAudio {
		c.synced = true
		drift := audioMS - c.simMS
		abs := drift
		if abs < 0 {
			abs = -abs
		}
		switch {
		case abs > hardSyncMS:
			// Seeks, stalls and device glitches: adopt the device time.
			c.simMS = audioMS
		case abs > softSyncMS:
			// Exponential pull-in; below softSyncMS is a dead zone so
			// jitter does not oscillate the correction.
			c.simMS += drift * softSyncPull
		}
	}
	return c.simMS
}

// Seek forces the simulation time, used by checkpoint restore. The
// next Tick re-syncs against the (also seeked) audio device.
func (c *Clock) Seek(timeMS float64) {
	c.simMS = timeMS
}
