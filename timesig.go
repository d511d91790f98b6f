package pacer

import "fmt"

const (
	// DefaultPPQN is the tick resolution used when none is given: ticks per
	// quarter note.
	DefaultPPQN = 480

	// SpeedAdjustFactor scales all tick math so that playback speeds other
	// than 1.0 can be represented with integer ticks. A tick delta fed to the
	// tracker is in units of 1/SpeedAdjustFactor ticks.
	SpeedAdjustFactor = 1000
)

// TimeSig is a time signature, e.g. {Num: 3, Denom: 4} for 3/4. Num is the
// number of beats in a bar and Denom the beat unit (4 = quarter note). The zero
// value means "no time signature yet".
type TimeSig struct {
	Num   int
	Denom int
}

// Valid reports if the signature can be used for bar math: Num ≥ 1 and Denom a
// positive power of two.
func (t TimeSig) Valid() bool {
	return t.Num >= 1 && t.Denom > 0 && t.Denom&(t.Denom-1) == 0
}

// BeatLength returns the length of one beat in ticks, given the ticks per
// quarter note. Invalid signatures have zero length.
func (t TimeSig) BeatLength(ppqn int) int {
	if !t.Valid() || ppqn <= 0 {
		return 0
	}
	return ppqn * 4 / t.Denom
}

// BarLength returns the length of one bar in ticks.
func (t TimeSig) BarLength(ppqn int) int {
	return t.BeatLength(ppqn) * t.Num
}

func (t TimeSig) String() string {
	if !t.Valid() {
		return "-/-"
	}
	return fmt.Sprintf("%d/%d", t.Num, t.Denom)
}
