package player_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/bar"
	"github.com/vsariola/pacer/clock"
	"github.com/vsariola/pacer/player"
	"github.com/vsariola/pacer/song"
)

type sliceSource struct {
	events []pacer.Event
	pos    int
}

func (s *sliceSource) Next() pacer.Event {
	if s.pos >= len(s.events) {
		return pacer.EOF(0)
	}
	s.pos++
	return s.events[s.pos-1]
}

func (s *sliceSource) Rewind() error {
	s.pos = 0
	return nil
}

func beats(bars int) *sliceSource {
	events := []pacer.Event{pacer.TimeSigChange(0, 4, 4), pacer.NoteOn(0, 0, 60, 100)}
	for i := 1; i < bars*4; i++ {
		events = append(events, pacer.NoteOn(480, 0, 60, 100))
	}
	events = append(events, pacer.EOF(480))
	return &sliceSource{events: events}
}

func newPlayer(t *testing.T, bars int) *player.Player {
	t.Helper()
	c := clock.New(480, 1)
	s := song.New(song.Options{PPQN: 480, SpeedAdjust: 1, Output: player.TempoTracking(c, nil)})
	if err := s.Load(beats(bars)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return player.New(s, c, time.Millisecond, nil)
}

func TestStepFollowsWallClock(t *testing.T) {
	p := newPlayer(t, 4)
	p.ToPlayer <- player.NewIsPlayingMsg(true)
	t0 := time.Unix(0, 0)
	bits, err := p.Step(t0)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if !bits.Has(pacer.LoadSong) {
		t.Fatalf("first step bits %v, want LoadSong", bits)
	}
	if _, err := p.Step(t0.Add(time.Second)); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	status := <-p.ToModel
	if !status.Bits.Has(pacer.LoadSong) || !status.Playing {
		t.Fatalf("first status %+v", status)
	}
	if _, err := p.Step(t0.Add(2500 * time.Millisecond)); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	// 120 bpm: 2.5 seconds are five beats
	status = <-p.ToModel
	if status.Pos != (bar.Pos{Bar: 1, Beat: 1}) || !status.Bits.Has(pacer.NewBarNumber) {
		t.Fatalf("status after 2.5s %+v", status)
	}
}

func TestLoopJumpsBack(t *testing.T) {
	p := newPlayer(t, 8)
	p.ToPlayer <- player.PlayFromBarMsg{Bar: 1}
	p.ToPlayer <- player.LoopingBarsMsg{Bars: 1}
	p.ToPlayer <- player.NewIsPlayingMsg(true)
	t0 := time.Unix(0, 0)
	for i, want := range []bar.Pos{{Bar: 1}, {Bar: 1, Beat: 2}, {Bar: 1}} {
		if _, err := p.Step(t0.Add(time.Duration(i) * time.Second)); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		var last player.Status
		for len(p.ToModel) > 0 {
			last = <-p.ToModel
		}
		if i == 2 && !last.Bits.Has(pacer.UptoBarReached) {
			t.Fatalf("loop end not reported, bits %v", last.Bits)
		}
		if got := p.Song().Tracker().Pos(); got != want {
			t.Fatalf("step %d at %+v, want %+v", i, got, want)
		}
	}
}

func TestTempoTracking(t *testing.T) {
	c := clock.New(480, 1)
	var played []pacer.Event
	out := player.TempoTracking(c, outputFunc(func(ev pacer.Event) { played = append(played, ev) }))
	out.Play(pacer.TempoChange(0, 250000))
	if c.Tempo() != 250000 || len(played) != 1 {
		t.Fatalf("tempo %d, %d events forwarded", c.Tempo(), len(played))
	}
}

func TestRunStopsAtEnd(t *testing.T) {
	p := newPlayer(t, 1)
	p.StopAtEnd = true
	p.ToPlayer <- player.SpeedMsg{Speed: 50}
	p.ToPlayer <- player.NewIsPlayingMsg(true)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run returned %v, want nil at the end of the piece", err)
	}
}

func TestRunCancelled(t *testing.T) {
	p := newPlayer(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
}

type outputFunc func(pacer.Event)

func (f outputFunc) Play(ev pacer.Event) { f(ev) }
