package pacer_test

import (
	"testing"

	"github.com/vsariola/pacer"
)

func TestTimeSig(t *testing.T) {
	tests := []struct {
		sig          pacer.TimeSig
		beat, barLen int
		valid        bool
	}{
		{pacer.TimeSig{Num: 4, Denom: 4}, 480, 1920, true},
		{pacer.TimeSig{Num: 6, Denom: 8}, 240, 1440, true},
		{pacer.TimeSig{Num: 3, Denom: 2}, 960, 2880, true},
		{pacer.TimeSig{Num: 0, Denom: 4}, 0, 0, false},
		{pacer.TimeSig{Num: 3, Denom: 3}, 0, 0, false},
		{pacer.TimeSig{}, 0, 0, false},
	}
	for _, tt := range tests {
		if tt.sig.Valid() != tt.valid || tt.sig.BeatLength(480) != tt.beat || tt.sig.BarLength(480) != tt.barLen {
			t.Errorf("%v: valid %v beat %d bar %d, want %v %d %d", tt.sig, tt.sig.Valid(), tt.sig.BeatLength(480), tt.sig.BarLength(480), tt.valid, tt.beat, tt.barLen)
		}
	}
}

func TestEventBits(t *testing.T) {
	b := pacer.NewBarNumber | pacer.ForceFullRedraw
	if !b.Has(pacer.NewBarNumber) || b.Has(pacer.LoadSong) || b.Has(0) {
		t.Fatalf("Has is wrong for %v", b)
	}
	if b.String() != "ForceFullRedraw|NewBarNumber" || pacer.EventBits(0).String() != "0" {
		t.Fatalf("String = %q", b.String())
	}
}

func TestNoteOnWithZeroVelocityIsNoteOff(t *testing.T) {
	ev := pacer.NoteOn(10, 1, 60, 0)
	if ev.Type != pacer.NoteOffEvent || ev.Delta != 10 || ev.Note() != 60 {
		t.Fatalf("NoteOn with velocity 0 = %v", ev)
	}
	if sig, ok := pacer.TimeSigChange(0, 3, 4).TimeSig(); !ok || sig != (pacer.TimeSig{Num: 3, Denom: 4}) {
		t.Fatalf("TimeSig() = %v, %v", sig, ok)
	}
}

func TestHand(t *testing.T) {
	for _, h := range []pacer.Hand{pacer.BothHands, pacer.RightHand, pacer.LeftHand} {
		if got, err := pacer.ParseHand(h.String()); err != nil || got != h {
			t.Errorf("ParseHand(%q) = %v, %v", h.String(), got, err)
		}
	}
	if _, err := pacer.ParseHand("thumb"); err == nil {
		t.Errorf("ParseHand accepted an unknown hand")
	}
	if pacer.Hand(7).Clamp() != pacer.LeftHand || !pacer.RightHand.Plays(pacer.MiddleC) || pacer.LeftHand.Plays(pacer.MiddleC) {
		t.Errorf("hand split around middle C is wrong")
	}
}
