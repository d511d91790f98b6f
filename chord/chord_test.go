package chord_test

import (
	"reflect"
	"testing"

	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/chord"
)

func feed(f *chord.Finder, events []pacer.Event, channel int, hand pacer.Hand) []pacer.Chord {
	var ret []pacer.Chord
	for _, ev := range events {
		if c, ok := f.TryMatch(ev, channel, hand); ok {
			ret = append(ret, c)
		}
	}
	return ret
}

func TestFinderGroupsSimultaneousNotes(t *testing.T) {
	events := []pacer.Event{
		pacer.NoteOn(0, 0, 60, 100),
		pacer.NoteOn(0, 0, 64, 100),
		pacer.NoteOn(0, 1, 40, 100), // other channel
		pacer.NoteOn(0, 0, 67, 100),
		pacer.NoteOff(240, 0, 60, 0),
		pacer.NoteOn(0, 0, 62, 100),
		pacer.EOF(240),
	}
	got := feed(chord.NewFinder(), events, 0, pacer.BothHands)
	want := []pacer.Chord{
		{Tick: 0, Channel: 0, Notes: []int{60, 64, 67}},
		{Tick: 240, Channel: 0, Notes: []int{62}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got chords %+v, expected %+v", got, want)
	}
}

func TestFinderHandFilter(t *testing.T) {
	events := []pacer.Event{
		pacer.NoteOn(0, 0, 48, 100),
		pacer.NoteOn(0, 0, 72, 100),
		pacer.EOF(10),
	}
	left := feed(chord.NewFinder(), events, 0, pacer.LeftHand)
	if len(left) != 1 || !reflect.DeepEqual(left[0].Notes, []int{48}) {
		t.Fatalf("left hand: got %+v", left)
	}
	right := feed(chord.NewFinder(), events, 0, pacer.RightHand)
	if len(right) != 1 || !reflect.DeepEqual(right[0].Notes, []int{72}) {
		t.Fatalf("right hand: got %+v", right)
	}
}

func TestFinderResetStartTick(t *testing.T) {
	f := chord.NewFinder()
	f.TryMatch(pacer.NoteOn(0, 0, 60, 100), 0, pacer.BothHands)
	f.Reset(1000)
	got := feed(f, []pacer.Event{pacer.NoteOn(20, 0, 61, 100), pacer.EOF(0)}, 0, pacer.BothHands)
	if len(got) != 1 || got[0].Tick != 1020 || !reflect.DeepEqual(got[0].Notes, []int{61}) {
		t.Fatalf("got %+v, expected one chord at tick 1020", got)
	}
}

func TestQueueDropBefore(t *testing.T) {
	q := chord.NewQueue(10)
	for _, tick := range []int64{0, 100, 200, 300} {
		q.InsertChord(pacer.Chord{Tick: tick, Notes: []int{60}})
	}
	if n := q.DropBefore(200); n != 2 {
		t.Fatalf("expected 2 chords dropped, got %v", n)
	}
	if c, ok := q.Wanted(); !ok || c.Tick != 200 {
		t.Fatalf("expected the wanted chord at 200, got %+v", c)
	}
	if q.FreeSpace() != 8 {
		t.Fatalf("expected free space 8, got %v", q.FreeSpace())
	}
}
