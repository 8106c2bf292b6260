// Package bus provides the typed bounded channels connecting the
// input, logic, render, and audio threads. All cross-thread data moves
// as value copies over these channels; no gameplay state is shared.
package bus

import (
	"github.com/Glubus/prism-vsrg/internal/audio"
	"github.com/Glubus/prism-vsrg/internal/engine"
	"github.com/Glubus/prism-vsrg/internal/input"
)

// Channel capacities. Snapshots are bounded at 2 to bound perceived
// latency: a stale frame is replaceable, a lost input action is not.
const (
	rawInputCap = 256
	actionCap   = 256
	snapshotCap = 2
	audioCmdCap = 64
)

// Bus owns one bounded channel per directed edge in the thread graph.
type Bus struct {
	rawInput  chan input.RawEvent
	actions   chan engine.Action
	snapshots chan engine.Snapshot
	audioCmds chan audio.Command
}

// New allocates all channels.
func New() *Bus {
	return &Bus{
		rawInput:  make(chan input.RawEvent, rawInputCap),
		actions:   make(chan engine.Action, actionCap),
		snapshots: make(chan engine.Snapshot, snapshotCap),
		audioCmds: make(chan audio.Command, audioCmdCap),
	}
}

// SendRawInput forwards a key transition to the input stage. Blocks
// when full: dropped input would corrupt judgement integrity, and the
// consumer drains every tick so any wait is one tick long.
func (b *Bus) SendRawInput(ev input.RawEvent) {
	b.rawInput <- ev
}

// RawInput is the input stage's receive side.
func (b *Bus) RawInput() <-chan input.RawEvent {
	return b.rawInput
}

// SendAction forwards a lane action to the logic thread. Blocking send
// for the same reason as raw input: actions are never dropped.
func (b *Bus) SendAction(a engine.Action) {
	b.actions <- a
}

// DrainActions collects all queued actions without blocking. The logic
// tick polls this once per tick; single producer per channel preserves
// timestamp order.
func (b *Bus) DrainActions(into []engine.Action) []engine.Action {
	for {
		select {
		case a := <-b.actions:
			into = append(into, a)
		default:
			return into
		}
	}
}

// PublishSnapshot sends a snapshot latest-wins: when the channel is
// full the oldest unread snapshot is discarded and replaced. The logic
// tick never stalls waiting on the renderer.
func (b *Bus) PublishSnapshot(s engine.Snapshot) {
	for {
		select {
		case b.snapshots <- s:
			return
		default:
		}
		select {
		case <-b.snapshots:
		default:
		}
	}
}

// LatestSnapshot drains the snapshot channel and returns the newest
// value, if any. Non-blocking; intermediate ticks may be skipped but
// the sequence seen by the consumer advances monotonically.
func (b *Bus) LatestSnapshot() (engine.Snapshot, bool) {
	var (
		latest engine.Snapshot
		ok     bool
	)
	for {
		select {
		case s := <-b.snapshots:
			latest = s
			ok = true
		default:
			return latest, ok
		}
	}
}

// SendAudioCommand forwards a transport command toward the audio sink.
func (b *Bus) SendAudioCommand(cmd audio.Command) {
	b.audioCmds <- cmd
}

// AudioCommands is the audio thread's receive side.
func (b *Bus) AudioCommands() <-chan audio.Command {
	return b.audioCmds
}
