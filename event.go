package pacer

import "fmt"

type (
	// Event is a decoded, timestamped MIDI-like event. Delta is the number of
	// ticks since the previous event of the stream (not scaled by
	// SpeedAdjustFactor). Data1 and Data2 carry the type specific payload: the
	// note and velocity of note events, controller and value of control
	// changes, numerator and denominator of time signatures, etc.
	Event struct {
		Delta   int
		Type    EventType
		Channel int
		Data1   int
		Data2   int
		// Tempo is the tempo in microseconds per quarter note; only used by
		// TempoEvent.
		Tempo int
	}

	EventType int
)

const (
	NoneEvent EventType = iota
	NoteOffEvent
	NoteOnEvent
	AftertouchEvent
	ControlChangeEvent
	ProgramChangeEvent
	ChannelPressureEvent
	PitchBendEvent
	TimeSigEvent
	TempoEvent
	EOFEvent
)

var eventTypeNames = [...]string{
	NoneEvent:            "none",
	NoteOffEvent:         "note off",
	NoteOnEvent:          "note on",
	AftertouchEvent:      "aftertouch",
	ControlChangeEvent:   "control change",
	ProgramChangeEvent:   "program change",
	ChannelPressureEvent: "channel pressure",
	PitchBendEvent:       "pitch bend",
	TimeSigEvent:         "time signature",
	TempoEvent:           "tempo",
	EOFEvent:             "end of stream",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventTypeNames) {
		return fmt.Sprintf("EventType(%d)", int(t))
	}
	return eventTypeNames[t]
}

func NoteOn(delta, channel, note, velocity int) Event {
	if velocity == 0 {
		// running status note off
		return NoteOff(delta, channel, note, 0)
	}
	return Event{Delta: delta, Type: NoteOnEvent, Channel: channel, Data1: note, Data2: velocity}
}

func NoteOff(delta, channel, note, velocity int) Event {
	return Event{Delta: delta, Type: NoteOffEvent, Channel: channel, Data1: note, Data2: velocity}
}

func TimeSigChange(delta, num, denom int) Event {
	return Event{Delta: delta, Type: TimeSigEvent, Data1: num, Data2: denom}
}

func TempoChange(delta, microsPerQuarter int) Event {
	return Event{Delta: delta, Type: TempoEvent, Tempo: microsPerQuarter}
}

func EOF(delta int) Event {
	return Event{Delta: delta, Type: EOFEvent}
}

func (e Event) IsEOF() bool { return e.Type == EOFEvent }

// IsNote reports if the event is a note on or note off.
func (e Event) IsNote() bool { return e.Type == NoteOnEvent || e.Type == NoteOffEvent }

func (e Event) Note() int     { return e.Data1 }
func (e Event) Velocity() int { return e.Data2 }

// TimeSig returns the time signature carried by a TimeSigEvent.
func (e Event) TimeSig() (TimeSig, bool) {
	if e.Type != TimeSigEvent {
		return TimeSig{}, false
	}
	return TimeSig{Num: e.Data1, Denom: e.Data2}, true
}

func (e Event) String() string {
	switch e.Type {
	case NoteOnEvent, NoteOffEvent:
		return fmt.Sprintf("+%d %v ch%d note %d vel %d", e.Delta, e.Type, e.Channel, e.Data1, e.Data2)
	case TimeSigEvent:
		return fmt.Sprintf("+%d %v %d/%d", e.Delta, e.Type, e.Data1, e.Data2)
	case TempoEvent:
		return fmt.Sprintf("+%d %v %dus", e.Delta, e.Type, e.Tempo)
	case EOFEvent:
		return fmt.Sprintf("+%d %v", e.Delta, e.Type)
	}
	return fmt.Sprintf("+%d %v ch%d %d %d", e.Delta, e.Type, e.Channel, e.Data1, e.Data2)
}
