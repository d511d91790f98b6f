// Package score is the renderer side buffer of the pump: a bounded window of
// upcoming symbols that is scrolled as playback moves.
package score

import (
	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/queue"
)

type (
	// Symbol is an event placed at its absolute tick.
	Symbol struct {
		Tick  int64
		Event pacer.Event
	}

	// Buffer implements pacer.Score. Inserted events are kept until playback
	// passes them; Scroll(true, now) then hands them to Draw.
	Buffer struct {
		symbols *queue.RingBuffer[Symbol]
		tick    int64 // absolute tick of the last inserted symbol
		now     int64 // absolute tick of the last scroll
		// Draw, if set, receives the symbols scrolled past while shown.
		Draw      func(Symbol)
		drawn     int
		discarded int
	}
)

// DefaultSize is the capacity of a buffer created with size ≤ 0.
const DefaultSize = 1000

func New(size int) *Buffer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Buffer{symbols: queue.New[Symbol](size)}
}

func (b *Buffer) FreeSpace() int { return b.symbols.FreeSpace() }

// Insert appends an event; the buffer never accepts more than its capacity.
func (b *Buffer) Insert(ev pacer.Event) {
	b.tick += int64(ev.Delta)
	b.symbols.Push(Symbol{Tick: b.tick, Event: ev})
}

// Scroll removes the symbols at or before the absolute tick now. When show is
// false they are discarded without drawing: this is the quiet scroll used
// while seeking. Symbols after now are kept either way.
func (b *Buffer) Scroll(show bool, now int64) {
	b.now = now
	for {
		s, ok := b.symbols.Peek()
		if !ok || s.Tick > now {
			return
		}
		b.symbols.Pop()
		if !show {
			b.discarded++
			continue
		}
		b.drawn++
		if b.Draw != nil {
			b.Draw(s)
		}
	}
}

// Now returns the tick passed to the last Scroll.
func (b *Buffer) Now() int64 { return b.now }

// Reset empties the buffer and restarts absolute time from zero.
func (b *Buffer) Reset() {
	b.symbols.Clear()
	b.tick = 0
	b.now = 0
}

// Len returns the number of symbols waiting to be scrolled.
func (b *Buffer) Len() int { return b.symbols.Len() }

// Upcoming yields the queued symbols in order without removing them.
func (b *Buffer) Upcoming(yield func(Symbol) bool) {
	for _, s := range b.symbols.All {
		if !yield(s) {
			return
		}
	}
}

// Drawn and Discarded count the symbols scrolled out with and without
// display since the buffer was created.
func (b *Buffer) Drawn() int     { return b.drawn }
func (b *Buffer) Discarded() int { return b.discarded }
