package audio

import (
	"sync"
	"time"
)

// Transport is a headless playback clock implementing both Clock and
// Sink. It tracks position from a monotonic time source, honoring
// play/pause/seek/rate the way a real device back-end would report
// them. The time source is injectable so tests drive it deterministically.
type Transport struct {
	mu       sync.Mutex
	now      func() time.Time
	started  bool // first play command seen
	playing  bool
	rate     float64
	baseMS   float64   // position at the last state change
	baseTime time.Time // wall instant of the last state change
}

// NewTransport creates a stopped transport at position zero.
func NewTransport() *Transport {
	return NewTransportWithNow(time.Now)
}

// NewTransportWithNow creates a transport over a custom time source.
func NewTransportWithNow(now func() time.Time) *Transport {
	return &Transport{now: now, rate: 1.0}
}

// PositionMS reports the current playback position. There is no signal
// until the first play command, matching a device that has not started;
// rate and seek commands during the pre-roll do not create one.
func (t *Transport) PositionMS() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return 0, false
	}
	return t.positionLocked(), true
}

func (t *Transport) positionLocked() float64 {
	if !t.playing {
		return t.baseMS
	}
	elapsed := t.now().Sub(t.baseTime).Seconds() * 1000.0
	return t.baseMS + elapsed*t.rate
}

// Submit applies a transport command.
func (t *Transport) Submit(cmd Command) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Rebase so position integrates correctly across state changes.
	pos := t.positionLocked()

	switch cmd.Kind {
	case CmdPlay:
		t.baseMS = pos
		t.baseTime = t.now()
		t.started = true
		t.playing = true
	case CmdPause:
		t.baseMS = pos
		t.baseTime = t.now()
		t.playing = false
	case CmdSeek:
		t.baseMS = cmd.Value
		t.baseTime = t.now()
	case CmdSetRate:
		t.baseMS = pos
		t.baseTime = t.now()
		if cmd.Value > 0 {
			t.rate = cmd.Value
		}
	case CmdStop:
		t.baseMS = 0
		t.baseTime = time.Time{}
		t.started = false
		t.playing = false
	}
}
