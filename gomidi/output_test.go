package gomidi_test

import (
	"errors"
	"testing"

	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/gomidi"
	"gitlab.com/gomidi/midi/v2"
)

func TestOutputSendsChannelEvents(t *testing.T) {
	var sent []midi.Message
	out := gomidi.NewOutput(gomidi.SenderFunc(func(msg []byte) error {
		sent = append(sent, midi.Message(msg))
		return nil
	}), nil)
	out.Play(pacer.TimeSigChange(0, 3, 4))
	out.Play(pacer.NoteOn(0, 2, 64, 90))
	out.Play(pacer.TempoChange(0, 400000))
	out.Play(pacer.NoteOff(0, 2, 64, 0))
	out.Play(pacer.EOF(0))
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sent))
	}
	var ch, key, vel uint8
	if !sent[0].GetNoteOn(&ch, &key, &vel) || ch != 2 || key != 64 || vel != 90 {
		t.Fatalf("first message = %v, want note on 2/64/90", sent[0])
	}
	if !sent[1].GetNoteEnd(&ch, &key) || ch != 2 || key != 64 {
		t.Fatalf("second message = %v, want note off 2/64", sent[1])
	}
}

func TestEncodeClampsValues(t *testing.T) {
	msg, ok := gomidi.Encode(pacer.Event{Type: pacer.PitchBendEvent, Channel: 20, Data1: 10000})
	if !ok {
		t.Fatalf("pitch bend was not encoded")
	}
	var ch uint8
	var rel int16
	var abs uint16
	if !msg.GetPitchBend(&ch, &rel, &abs) || ch != 15 || rel != 8191 {
		t.Fatalf("pitch bend = %v (ch %d, rel %d), want ch 15 rel 8191", msg, ch, rel)
	}
}

func TestOutputCountsFailures(t *testing.T) {
	out := gomidi.NewOutput(gomidi.SenderFunc(func([]byte) error {
		return errors.New("port closed")
	}), nil)
	out.Play(pacer.NoteOn(0, 0, 60, 100))
	out.Play(pacer.NoteOff(0, 0, 60, 0))
	if out.Failed() != 2 {
		t.Fatalf("Failed() = %d, want 2", out.Failed())
	}
}
