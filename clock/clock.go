// Package clock converts wall clock time into the scaled tick deltas the pump
// expects, following tempo changes and a user speed factor.
package clock

import (
	"time"

	"github.com/vsariola/pacer"
)

// DefaultTempo is 120 quarter notes per minute in microseconds per quarter.
const DefaultTempo = 500000

type (
	// Clock accumulates elapsed wall time and hands it out as whole ticks,
	// carrying the fractional remainder to the next call so no time is lost.
	Clock struct {
		ppqn        int
		speedAdjust int
		tempo       int     // microseconds per quarter note
		speed       float64 // 1 is the tempo of the piece
		carry       float64 // fraction of a tick not yet handed out
		last        time.Time
		started     bool
	}
)

// New returns a clock producing ticks at ppqn resolution, each multiplied by
// speedAdjust.
func New(ppqn, speedAdjust int) *Clock {
	if ppqn <= 0 {
		ppqn = pacer.DefaultPPQN
	}
	if speedAdjust <= 0 {
		speedAdjust = 1
	}
	return &Clock{ppqn: ppqn, speedAdjust: speedAdjust, tempo: DefaultTempo, speed: 1}
}

// SetTempo changes the tempo in microseconds per quarter note; non-positive
// values are ignored.
func (c *Clock) SetTempo(microsPerQuarter int) {
	if microsPerQuarter > 0 {
		c.tempo = microsPerQuarter
	}
}

// SetSpeed sets the playback speed factor, e.g. 0.5 for half speed.
// Non-positive values are ignored.
func (c *Clock) SetSpeed(speed float64) {
	if speed > 0 {
		c.speed = speed
	}
}

func (c *Clock) SetPPQN(ppqn int) {
	if ppqn > 0 {
		c.ppqn = ppqn
	}
}

// Ticks converts an elapsed duration into scaled ticks.
func (c *Clock) Ticks(elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	micros := float64(elapsed) / float64(time.Microsecond)
	ticks := micros*float64(c.ppqn)*float64(c.speedAdjust)*c.speed/float64(c.tempo) + c.carry
	whole := int(ticks)
	c.carry = ticks - float64(whole)
	return whole
}

// Since returns the scaled ticks elapsed since the previous call. The first
// call only records now and returns 0.
func (c *Clock) Since(now time.Time) int {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	elapsed := now.Sub(c.last)
	c.last = now
	return c.Ticks(elapsed)
}

// Restart forgets the previous time and fraction, e.g. after a pause.
func (c *Clock) Restart() {
	c.started = false
	c.carry = 0
}

// TickDuration returns the wall time of one unscaled tick at the current
// tempo and speed.
func (c *Clock) TickDuration() time.Duration {
	return time.Duration(float64(c.tempo) / (float64(c.ppqn) * c.speed) * float64(time.Microsecond))
}

func (c *Clock) Tempo() int       { return c.tempo }
func (c *Clock) Speed() float64   { return c.speed }
func (c *Clock) BPM() float64     { return 60e6 / float64(c.tempo) }
func (c *Clock) SpeedAdjust() int { return c.speedAdjust }
