package score_test

import (
	"testing"

	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/score"
)

func TestScrollShowsPassedSymbols(t *testing.T) {
	b := score.New(8)
	b.Insert(pacer.NoteOn(0, 0, 60, 100))
	b.Insert(pacer.NoteOn(480, 0, 62, 100))
	b.Insert(pacer.NoteOn(480, 0, 64, 100))
	var drawn []int64
	b.Draw = func(s score.Symbol) { drawn = append(drawn, s.Tick) }
	b.Scroll(true, 480)
	if len(drawn) != 2 || drawn[0] != 0 || drawn[1] != 480 {
		t.Fatalf("drawn ticks = %v, want [0 480]", drawn)
	}
	if b.Len() != 1 || b.FreeSpace() != 7 {
		t.Fatalf("Len = %d FreeSpace = %d, want 1 and 7", b.Len(), b.FreeSpace())
	}
}

func TestQuietScrollKeepsUpcomingSymbols(t *testing.T) {
	b := score.New(4)
	for range 4 {
		b.Insert(pacer.NoteOn(10, 0, 60, 100))
	}
	if b.FreeSpace() != 0 {
		t.Fatalf("FreeSpace = %d, want 0", b.FreeSpace())
	}
	b.Draw = func(score.Symbol) { t.Fatalf("quiet scroll must not draw") }
	b.Scroll(false, 25)
	if b.FreeSpace() != 2 || b.Discarded() != 2 || b.Drawn() != 0 {
		t.Fatalf("FreeSpace %d Discarded %d Drawn %d, want 2 2 0", b.FreeSpace(), b.Discarded(), b.Drawn())
	}
	var ticks []int64
	for s := range b.Upcoming {
		ticks = append(ticks, s.Tick)
	}
	if len(ticks) != 2 || ticks[0] != 30 || ticks[1] != 40 {
		t.Fatalf("upcoming ticks = %v, want [30 40]", ticks)
	}
	if b.Now() != 25 {
		t.Fatalf("Now = %d, want 25", b.Now())
	}
}

func TestResetRestartsTime(t *testing.T) {
	b := score.New(4)
	b.Insert(pacer.NoteOn(100, 0, 60, 100))
	b.Reset()
	b.Insert(pacer.NoteOn(5, 0, 60, 100))
	for s := range b.Upcoming {
		if s.Tick != 5 {
			t.Fatalf("tick after reset = %d, want 5", s.Tick)
		}
	}
}
