// Package bar converts a stream of tick deltas into a musical position of bars
// and beats, and keeps the seek and loop state that is checked every time a
// bar boundary is crossed.
package bar

import (
	"github.com/vsariola/pacer"
)

type (
	// Tracker keeps the current bar, beat and tick of a piece. It is advanced
	// with Advance and is not safe for concurrent use: it should be owned by
	// the same context that drives the pump.
	//
	// Ticks fed to Advance are scaled by speedAdjust, i.e. one tick of the
	// piece is speedAdjust units of the accumulator. Seeking only works
	// forwards: SetPlayFromBar with a position behind the current one does not
	// arm the seek, and the piece has to be rewound instead.
	Tracker struct {
		ppqn        int
		speedAdjust int

		start     pacer.TimeSig // the time signature at the start of the piece
		current   pacer.TimeSig
		beginning bool // the next valid signature is the start signature

		beatLength int // in ticks
		barLength  int // beatLength * current.Num

		tick int // scaled ticks within the current beat
		beat int
		bar  int

		playFrom float64
		playUpto float64
		looping  float64

		seeking        bool
		enableLooping  bool
		enablePlayFrom bool
		uptoReached    bool // UptoBarReached was already raised for this loop

		pending pacer.EventBits // raised outside Advance, delivered with the next Advance
	}

	// Pos is an integer position: zero based bar and beat and the ticks within
	// the beat, scaled by the speed adjust factor.
	Pos struct {
		Bar  int
		Beat int
		Tick int
	}
)

// New returns a tracker with no time signature. Non-positive ppqn defaults to
// pacer.DefaultPPQN and non-positive speedAdjust to 1.
func New(ppqn, speedAdjust int) *Tracker {
	if ppqn <= 0 {
		ppqn = pacer.DefaultPPQN
	}
	if speedAdjust <= 0 {
		speedAdjust = 1
	}
	t := &Tracker{ppqn: ppqn, speedAdjust: speedAdjust}
	t.Reset()
	return t
}

// SetPPQN changes the tick resolution, e.g. to match a newly loaded file. It
// should be followed by Reset or Rewind; the current signature is recomputed.
func (t *Tracker) SetPPQN(ppqn int) {
	if ppqn <= 0 {
		ppqn = pacer.DefaultPPQN
	}
	t.ppqn = ppqn
	t.beatLength = t.current.BeatLength(t.ppqn)
	t.barLength = t.current.BarLength(t.ppqn)
}

// Reset clears the time signatures, the position, the seek and loop settings
// and any pending event bits, as when a new piece is loaded.
func (t *Tracker) Reset() {
	t.start = pacer.TimeSig{}
	t.BeginSignature()
	t.playFrom = 0
	t.playUpto = 0
	t.looping = 0
	t.seeking = false
	t.uptoReached = false
	t.pending = 0
	t.setupEnableFlags()
}

// BeginSignature clears the current time signature and the position. The
// next valid signature given to SetSignature becomes the start signature of
// the piece; later ones are treated as signature changes.
func (t *Tracker) BeginSignature() {
	t.beginning = true
	t.current = pacer.TimeSig{}
	t.beatLength = 0
	t.barLength = 0
	t.tick = 0
	t.beat = 0
	t.bar = 0
}

// SetSignature installs a new current time signature. An invalid signature
// (e.g. 0/0) means "no signature": beat and bar lengths become zero and the
// tracker stops counting beats until a valid one is set.
//
// A change in the middle of a bar keeps the ticks elapsed in the bar, except
// when the new bar is longer: then the elapsed fraction of the bar is kept,
// so that the position never moves back.
func (t *Tracker) SetSignature(num, denom int) {
	oldBar := t.barLength
	elapsed := t.beat*t.beatLength*t.speedAdjust + t.tick
	t.current = pacer.TimeSig{Num: num, Denom: denom}
	t.beatLength = t.current.BeatLength(t.ppqn)
	t.barLength = t.current.BarLength(t.ppqn)
	if t.beatLength == 0 {
		t.current = pacer.TimeSig{}
		return
	}
	if t.beginning {
		t.start = t.current
		t.beginning = false
	}
	if oldBar > 0 && elapsed > 0 && t.barLength > oldBar {
		scaled := (int64(elapsed)*int64(t.barLength) + int64(oldBar) - 1) / int64(oldBar)
		t.beat, t.tick = 0, int(scaled)
	}
	// a shorter signature can leave the counters beyond the end of the bar
	if t.wrap() {
		t.pending |= pacer.NewBarNumber
	}
}

// Advance adds ticks (scaled by the speed adjust factor) to the position. The
// returned bits contain NewBarNumber iff the bar counter changed during this
// call, UptoBarReached if the loop end was reached and any bits raised by
// configuration calls since the previous Advance.
func (t *Tracker) Advance(ticks int) pacer.EventBits {
	bits := t.pending
	t.pending = 0
	if ticks > 0 {
		t.tick += ticks
	}
	if t.wrap() {
		bits |= pacer.NewBarNumber
		if t.enablePlayFrom {
			bits |= t.checkGotoBar()
		}
	}
	return bits
}

// wrap carries whole beats from the tick accumulator and whole bars from the
// beat counter. It reports if the bar counter changed.
func (t *Tracker) wrap() bool {
	if t.beatLength <= 0 {
		return false
	}
	beatTicks := t.beatLength * t.speedAdjust
	if t.tick >= beatTicks {
		t.beat += t.tick / beatTicks
		t.tick %= beatTicks
	}
	if t.beat < t.current.Num {
		return false
	}
	t.bar += t.beat / t.current.Num
	t.beat %= t.current.Num
	return true
}

// checkGotoBar is run after bar boundaries: it ends a seek once the target is
// reached and raises UptoBarReached once per loop when the loop end is passed.
func (t *Tracker) checkGotoBar() pacer.EventBits {
	pos := t.CurrentBarPos()
	if t.seeking && pos >= t.playFrom {
		t.seeking = false
	}
	if t.enableLooping && !t.uptoReached && pos >= t.playUpto {
		t.uptoReached = true
		return pacer.UptoBarReached
	}
	return 0
}

// armGotoBar starts a seek if the play-from bar is ahead of the current
// position, and cancels an earlier one otherwise.
func (t *Tracker) armGotoBar() {
	t.seeking = t.enablePlayFrom && t.CurrentBarPos() < t.playFrom
	t.pending |= t.checkGotoBar()
}

// SetPlayFromBar sets the (fractional) bar from which playing should start and
// the loop starts. The target must not be behind the current position: seeking
// is forward only.
func (t *Tracker) SetPlayFromBar(bar float64) {
	if bar < 0 {
		bar = 0
	}
	t.playFrom = bar
	t.playUpto = t.playFrom + t.looping
	t.uptoReached = false
	t.setupEnableFlags()
	t.armGotoBar()
}

// SetPlayFromBarBeat is SetPlayFromBar with the position given as bar, beat
// and unscaled ticks within the beat.
func (t *Tracker) SetPlayFromBarBeat(bar, beat, tick int) {
	pos := float64(bar)
	if t.beatLength > 0 {
		num := float64(t.current.Num)
		pos += float64(beat)/num + float64(tick)/(float64(t.beatLength)*num)
	}
	t.SetPlayFromBar(pos)
}

// SetLoopingBars sets the length of the loop in bars; bars ≤ 0 disables
// looping.
func (t *Tracker) SetLoopingBars(bars float64) {
	if bars < 0 {
		bars = 0
	}
	t.looping = bars
	t.playUpto = t.playFrom + t.looping
	t.uptoReached = false
	t.setupEnableFlags()
}

// Rewind moves back to the start of the piece, reinstalling the start time
// signature, and re-arms the seek if a play-from bar has been set.
func (t *Tracker) Rewind() {
	start := t.start
	t.BeginSignature()
	t.SetSignature(start.Num, start.Denom)
	t.pending &^= pacer.NewBarNumber
	t.uptoReached = false
	t.armGotoBar()
}

func (t *Tracker) setupEnableFlags() {
	t.enableLooping = t.looping > 0
	t.enablePlayFrom = t.enableLooping || t.playFrom > 0
}

// CurrentBarPos returns the position as a fractional bar number. It never
// decreases between calls to Advance, only Rewind moves it back.
func (t *Tracker) CurrentBarPos() float64 {
	if t.beatLength <= 0 {
		return float64(t.bar)
	}
	num := float64(t.current.Num)
	return float64(t.bar) + float64(t.beat)/num +
		float64(t.tick)/(float64(t.beatLength)*num*float64(t.speedAdjust))
}

func (t *Tracker) Pos() Pos                    { return Pos{Bar: t.bar, Beat: t.beat, Tick: t.tick} }
func (t *Tracker) BarNumber() int              { return t.bar }
func (t *Tracker) Beat() int                   { return t.beat }
func (t *Tracker) Tick() int                   { return t.tick }
func (t *Tracker) TimeSig() pacer.TimeSig      { return t.current }
func (t *Tracker) StartTimeSig() pacer.TimeSig { return t.start }
func (t *Tracker) BeatLength() int             { return t.beatLength }
func (t *Tracker) BarLength() int              { return t.barLength }
func (t *Tracker) PlayFromBar() float64        { return t.playFrom }
func (t *Tracker) PlayUptoBar() float64        { return t.playUpto }
func (t *Tracker) LoopingBars() float64        { return t.looping }
func (t *Tracker) Looping() bool               { return t.enableLooping }
func (t *Tracker) Seeking() bool               { return t.seeking }
func (t *Tracker) SpeedAdjust() int            { return t.speedAdjust }
func (t *Tracker) PPQN() int                   { return t.ppqn }

// BarChanged reports whether bits contain NewBarNumber, i.e. whether the bar
// counter changed during the Advance call that returned them.
func BarChanged(bits pacer.EventBits) bool { return bits.Has(pacer.NewBarNumber) }
