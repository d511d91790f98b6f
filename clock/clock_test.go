package clock_test

import (
	"testing"
	"time"

	"github.com/vsariola/pacer/clock"
)

func TestTicksAtDefaultTempo(t *testing.T) {
	c := clock.New(480, 1)
	// 120 bpm: one quarter note is half a second
	if got := c.Ticks(500 * time.Millisecond); got != 480 {
		t.Fatalf("Ticks(500ms) = %d, want 480", got)
	}
}

func TestTicksScaledBySpeedAndTempo(t *testing.T) {
	c := clock.New(480, 1000)
	c.SetTempo(1000000) // 60 bpm
	c.SetSpeed(0.5)
	if got := c.Ticks(2 * time.Second); got != 480*1000 {
		t.Fatalf("Ticks(2s) = %d, want %d", got, 480*1000)
	}
}

func TestFractionsCarry(t *testing.T) {
	c := clock.New(250, 1)
	c.SetTempo(1000000)
	// a quarter of a tick per millisecond
	total := 0
	for i := range 1000 {
		got := c.Ticks(time.Millisecond)
		want := 0
		if (i+1)%4 == 0 {
			want = 1
		}
		if got != want {
			t.Fatalf("step %d gave %d ticks, want %d", i, got, want)
		}
		total += got
	}
	if total != 250 {
		t.Fatalf("total ticks = %d, want 250", total)
	}
}

func TestSinceFirstCallIsZero(t *testing.T) {
	c := clock.New(480, 1)
	t0 := time.Unix(100, 0)
	if got := c.Since(t0); got != 0 {
		t.Fatalf("first Since = %d, want 0", got)
	}
	if got := c.Since(t0.Add(250 * time.Millisecond)); got != 240 {
		t.Fatalf("Since after 250ms = %d, want 240", got)
	}
	c.Restart()
	if got := c.Since(t0.Add(time.Hour)); got != 0 {
		t.Fatalf("Since after restart = %d, want 0", got)
	}
}

func TestInvalidSettingsIgnored(t *testing.T) {
	c := clock.New(0, 0)
	c.SetTempo(-1)
	c.SetSpeed(0)
	if c.Tempo() != clock.DefaultTempo || c.Speed() != 1 || c.SpeedAdjust() != 1 {
		t.Fatalf("tempo %d speed %v speedAdjust %d, want defaults", c.Tempo(), c.Speed(), c.SpeedAdjust())
	}
	if c.BPM() != 120 {
		t.Fatalf("BPM = %v, want 120", c.BPM())
	}
}
