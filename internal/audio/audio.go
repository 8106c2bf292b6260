// Package audio defines the contracts the gameplay core requires from
// the audio subsystem: a polling playback-time accessor and a command
// sink. Decoding and device management live outside the core; a
// headless transport is provided for tests, replays, and audio-less
// play.
package audio

import "fmt"

// Clock is the polled playback position of the audio device.
// The boolean is false while the device has no time signal (not yet
// started, seeking); the simulation clock freezes rather than
// extrapolate through such gaps.
type Clock interface {
	PositionMS() (float64, bool)
}

// CommandKind enumerates transport commands accepted by the sink.
type CommandKind int

const (
	CmdPlay CommandKind = iota
	CmdPause
	CmdSeek
	CmdSetRate
	CmdStop
)

func (k CommandKind) String() string {
	switch k {
	case CmdPlay:
		return "play"
	case CmdPause:
		return "pause"
	case CmdSeek:
		return "seek"
	case CmdSetRate:
		return "set_rate"
	case CmdStop:
		return "stop"
	default:
		return fmt.Sprintf("command(%d)", int(k))
	}
}

// Command is a transport instruction sent from the logic thread.
// Value carries the seek position in ms or the rate multiplier.
type Command struct {
	Kind  CommandKind
	Value float64
}

// Sink accepts transport commands. Implementations must never block on
// gameplay threads.
type Sink interface {
	Submit(cmd Command)
}
