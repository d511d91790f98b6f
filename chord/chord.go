// Package chord groups the note events of the active channel into the chords
// that the pianist is expected to play, and queues them for the conductor.
package chord

import (
	"slices"

	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/queue"
)

type (
	// Finder collects note ons that start at the same tick. A chord is
	// complete when time moves on, i.e. when an event with a non-zero delta or
	// the end of stream is seen.
	Finder struct {
		tick  int64 // absolute tick of the last event seen
		chord pacer.Chord
	}

	// Queue is the bounded queue of wanted chords.
	Queue struct {
		q *queue.RingBuffer[pacer.Chord]
	}
)

func NewFinder() *Finder { return &Finder{} }

// TryMatch feeds the next event to the finder. It returns the previous chord
// when ev completes it.
func (f *Finder) TryMatch(ev pacer.Event, channel int, hand pacer.Hand) (pacer.Chord, bool) {
	f.tick += int64(ev.Delta)
	var done pacer.Chord
	ok := false
	if len(f.chord.Notes) > 0 && (ev.Delta > 0 || ev.IsEOF()) {
		done, ok = f.chord, true
		f.chord = pacer.Chord{}
	}
	if ev.Type == pacer.NoteOnEvent && ev.Channel == channel && hand.Plays(ev.Note()) {
		if len(f.chord.Notes) == 0 {
			f.chord = pacer.Chord{Tick: f.tick, Channel: channel}
		}
		if !slices.Contains(f.chord.Notes, ev.Note()) {
			f.chord.Notes = append(f.chord.Notes, ev.Note())
		}
	}
	return done, ok
}

// Reset drops the partial chord; the next event is taken to be at startTick.
func (f *Finder) Reset(startTick int64) {
	f.tick = startTick
	f.chord = pacer.Chord{}
}

func NewQueue(capacity int) *Queue {
	return &Queue{q: queue.New[pacer.Chord](capacity)}
}

func (q *Queue) FreeSpace() int            { return q.q.FreeSpace() }
func (q *Queue) InsertChord(c pacer.Chord) { q.q.Push(c) }
func (q *Queue) Clear()                    { q.q.Clear() }
func (q *Queue) Len() int                  { return q.q.Len() }

// Next removes and returns the next wanted chord.
func (q *Queue) Next() (pacer.Chord, bool) { return q.q.Pop() }

// Wanted returns the next wanted chord without removing it.
func (q *Queue) Wanted() (pacer.Chord, bool) { return q.q.Peek() }

// DropBefore discards the chords that start before tick, e.g. the ones that
// were skipped over by a seek.
func (q *Queue) DropBefore(tick int64) int {
	n := 0
	for c, ok := q.q.Peek(); ok && c.Tick < tick; c, ok = q.q.Peek() {
		q.q.Pop()
		n++
	}
	return n
}
