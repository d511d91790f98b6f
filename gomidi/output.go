package gomidi

import (
	"log/slog"

	"github.com/vsariola/pacer"
	"gitlab.com/gomidi/midi/v2"
)

type (
	// Sender sends one raw MIDI message. drivers.Out.Send and the function
	// returned by midi.SendTo both fit.
	Sender interface {
		Send(msg []byte) error
	}

	// SenderFunc adapts a function to a Sender.
	SenderFunc func(msg []byte) error

	// Output is a pacer.Output encoding played events as MIDI messages.
	// Meta events (time signature, tempo, end of stream) are not sent.
	Output struct {
		sender Sender
		logger *slog.Logger
		failed int
	}
)

func (f SenderFunc) Send(msg []byte) error { return f(msg) }

// NewOutput returns an Output sending to s. Send errors are logged to logger,
// which may be nil.
func NewOutput(s Sender, logger *slog.Logger) *Output {
	if logger == nil {
		logger = slog.Default()
	}
	return &Output{sender: s, logger: logger}
}

// Play implements pacer.Output.
func (o *Output) Play(ev pacer.Event) {
	msg, ok := Encode(ev)
	if !ok {
		return
	}
	if err := o.sender.Send(msg); err != nil {
		// only the first failure is logged at warn level to avoid flooding
		if o.failed == 0 {
			o.logger.Warn("sending MIDI message failed", "event", ev, "error", err)
		} else {
			o.logger.Debug("sending MIDI message failed", "event", ev, "error", err)
		}
		o.failed++
	}
}

// Failed returns the number of messages that could not be sent.
func (o *Output) Failed() int { return o.failed }

// Encode converts a channel event into a MIDI message. ok is false for events
// that have no channel message equivalent.
func Encode(ev pacer.Event) (msg midi.Message, ok bool) {
	ch := clamp7(ev.Channel, 15)
	d1 := clamp7(ev.Data1, 127)
	d2 := clamp7(ev.Data2, 127)
	switch ev.Type {
	case pacer.NoteOnEvent:
		return midi.NoteOn(ch, d1, d2), true
	case pacer.NoteOffEvent:
		return midi.NoteOffVelocity(ch, d1, d2), true
	case pacer.ControlChangeEvent:
		return midi.ControlChange(ch, d1, d2), true
	case pacer.ProgramChangeEvent:
		return midi.ProgramChange(ch, d1), true
	case pacer.PitchBendEvent:
		bend := ev.Data1
		bend = max(min(bend, 8191), -8192)
		return midi.Pitchbend(ch, int16(bend)), true
	case pacer.AftertouchEvent:
		return midi.PolyAfterTouch(ch, d1, d2), true
	case pacer.ChannelPressureEvent:
		return midi.AfterTouch(ch, d1), true
	}
	return nil, false
}

func clamp7(v, hi int) uint8 {
	return uint8(max(min(v, hi), 0))
}
