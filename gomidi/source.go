// Package gomidi adapts gitlab.com/gomidi/midi/v2 to the pacer interfaces:
// Source reads a standard MIDI file and Output sends played events to a MIDI
// out port.
package gomidi

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/vsariola/pacer"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrNoMetricTicks is returned for files that use SMPTE time codes instead of
// ticks per quarter note.
var ErrNoMetricTicks = errors.New("MIDI file does not use metric ticks")

type (
	// Source is a pacer.RewindSource reading the events of a standard MIDI
	// file. The tracks are merged into one stream ordered by time. End of
	// track events are dropped and a single end of stream event is emitted at
	// the end of the longest track.
	Source struct {
		events []pacer.Event
		pos    int
		ppqn   int
		title  string
	}
)

// ReadFile opens and decodes the standard MIDI file at path.
func ReadFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open MIDI file %v: %w", path, err)
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("could not read MIDI file %v: %w", path, err)
	}
	return s, nil
}

// Read decodes a standard MIDI file.
func Read(r io.Reader) (*Source, error) {
	mid, err := smf.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return FromSMF(mid)
}

// FromSMF decodes an already parsed standard MIDI file.
func FromSMF(mid *smf.SMF) (*Source, error) {
	ticks, ok := mid.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, ErrNoMetricTicks
	}
	s := &Source{ppqn: int(ticks)}
	var last, end int64
	err := forEachEventWithTime(mid, func(time int64, track int, msg smf.Message) error {
		end = max(end, time)
		if msg.Is(smf.MetaEndOfTrackMsg) {
			return nil
		}
		if s.title == "" {
			var text string
			if msg.GetMetaTrackName(&text) {
				s.title = text
			}
		}
		ev, ok := decode(msg)
		if !ok {
			return nil
		}
		ev.Delta = int(time - last)
		last = time
		s.events = append(s.events, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.events = append(s.events, pacer.EOF(int(end-last)))
	return s, nil
}

// forEachEventWithTime calls yield for every event of every track in the order
// of their absolute time; events at the same time keep the track order.
func forEachEventWithTime(mid *smf.SMF, yield func(time int64, track int, msg smf.Message) error) error {
	trackPos := make([]int, len(mid.Tracks))    // index of the next event of each track
	trackTime := make([]int64, len(mid.Tracks)) // time of the last event of each track
	for {
		earliestTrack := -1
		var earliestTime int64
		for i, t := range mid.Tracks {
			p := trackPos[i]
			if p >= len(t) {
				continue
			}
			at := trackTime[i] + int64(t[p].Delta)
			if earliestTrack < 0 || at < earliestTime {
				earliestTime = at
				earliestTrack = i
			}
		}
		if earliestTrack < 0 {
			return nil
		}
		msg := mid.Tracks[earliestTrack][trackPos[earliestTrack]].Message
		if err := yield(earliestTime, earliestTrack, msg); err != nil {
			return err
		}
		trackPos[earliestTrack]++
		trackTime[earliestTrack] = earliestTime
	}
}

func decode(msg smf.Message) (pacer.Event, bool) {
	var channel, key, velocity, controller, value, program, pressure uint8
	var num, denom, clocks, demisemiquavers uint8
	var relative int16
	var absolute uint16
	var bpm float64
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		return pacer.NoteOn(0, int(channel), int(key), int(velocity)), true
	case msg.GetNoteEnd(&channel, &key):
		msg.GetNoteOff(&channel, &key, &velocity)
		return pacer.NoteOff(0, int(channel), int(key), int(velocity)), true
	case msg.GetControlChange(&channel, &controller, &value):
		return pacer.Event{Type: pacer.ControlChangeEvent, Channel: int(channel), Data1: int(controller), Data2: int(value)}, true
	case msg.GetProgramChange(&channel, &program):
		return pacer.Event{Type: pacer.ProgramChangeEvent, Channel: int(channel), Data1: int(program)}, true
	case msg.GetPitchBend(&channel, &relative, &absolute):
		return pacer.Event{Type: pacer.PitchBendEvent, Channel: int(channel), Data1: int(relative)}, true
	case msg.GetPolyAfterTouch(&channel, &key, &pressure):
		return pacer.Event{Type: pacer.AftertouchEvent, Channel: int(channel), Data1: int(key), Data2: int(pressure)}, true
	case msg.GetAfterTouch(&channel, &pressure):
		return pacer.Event{Type: pacer.ChannelPressureEvent, Channel: int(channel), Data1: int(pressure)}, true
	case msg.GetMetaTimeSig(&num, &denom, &clocks, &demisemiquavers):
		return pacer.TimeSigChange(0, int(num), int(denom)), true
	case msg.GetMetaTempo(&bpm):
		if bpm <= 0 {
			return pacer.Event{}, false
		}
		return pacer.TempoChange(0, int(math.Round(60e6/bpm))), true
	}
	return pacer.Event{}, false
}

// Next returns the next event, or the end of stream event once all the events
// have been returned.
func (s *Source) Next() pacer.Event {
	if s.pos >= len(s.events) {
		return pacer.EOF(0)
	}
	ev := s.events[s.pos]
	s.pos++
	return ev
}

// Rewind restarts the stream from the first event.
func (s *Source) Rewind() error {
	s.pos = 0
	return nil
}

// PPQN returns the resolution of the file in ticks per quarter note.
func (s *Source) PPQN() int { return s.ppqn }

// Title returns the first track name found in the file, if any.
func (s *Source) Title() string { return s.title }

// Len returns the number of events, including the end of stream.
func (s *Source) Len() int { return len(s.events) }
