package pacer

import (
	"fmt"
	"strings"
)

type (
	// Chord is a group of notes that are meant to be played together. Tick is
	// the absolute position of the chord from the start of the stream, in
	// unscaled ticks.
	Chord struct {
		Tick    int64
		Channel int
		Notes   []int
	}

	// Hand selects which part of the keyboard the pianist is playing. Right
	// hand notes are at or above middle C.
	Hand int
)

const (
	BothHands Hand = iota
	RightHand
	LeftHand
)

// MiddleC is the MIDI note number used to split the hands.
const MiddleC = 60

// Clamp returns the hand limited to the known values.
func (h Hand) Clamp() Hand {
	if h < BothHands {
		return BothHands
	}
	if h > LeftHand {
		return LeftHand
	}
	return h
}

// Plays reports if the given note belongs to the hand.
func (h Hand) Plays(note int) bool {
	switch h {
	case RightHand:
		return note >= MiddleC
	case LeftHand:
		return note < MiddleC
	}
	return true
}

func (h Hand) String() string {
	switch h {
	case RightHand:
		return "right"
	case LeftHand:
		return "left"
	}
	return "both"
}

// Len returns the number of notes in the chord.
func (c Chord) Len() int { return len(c.Notes) }

// ParseHand is the inverse of Hand.String.
func ParseHand(s string) (Hand, error) {
	switch strings.ToLower(s) {
	case "both", "":
		return BothHands, nil
	case "right":
		return RightHand, nil
	case "left":
		return LeftHand, nil
	}
	return BothHands, fmt.Errorf("unknown hand %q", s)
}
