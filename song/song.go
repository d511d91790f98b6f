// Package song ties the tracker, the pump, the chord finder and the score
// buffer together into the context a player drives: load, rewind, seek, loop
// and the periodic task.
package song

import (
	"fmt"
	"log/slog"

	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/bar"
	"github.com/vsariola/pacer/chord"
	"github.com/vsariola/pacer/pump"
	"github.com/vsariola/pacer/score"
)

type (
	// Song is single threaded; player.Player serialises access to it.
	Song struct {
		source  pacer.RewindSource
		tracker *bar.Tracker
		pump    *pump.Pump
		finder  *chord.Finder
		chords  *chord.Queue
		score   *score.Buffer
		logger  *slog.Logger
		ppqn    int // resolution for sources that do not report their own
		info    Info
		bits    pacer.EventBits // raised outside Task, delivered by ReadEventBits or Task
	}

	// Options configure a new Song. Zero values use the package defaults.
	Options struct {
		PPQN          int
		SpeedAdjust   int
		LowWater      pump.LowWater
		PlaybackQueue int
		ChordQueue    int
		ScoreSize     int
		Output        pacer.Output
		Sinks         []pacer.EventSink
		Logger        *slog.Logger
		Channel       int
		Hand          pacer.Hand
	}

	// Info is gathered by scanning the whole source at load time.
	Info struct {
		StartSig   pacer.TimeSig
		NoteCounts [16]int // note ons per channel
		Events     int
		Ticks      int64 // length of the piece in unscaled ticks
		Title      string
	}

	// PPQNer is implemented by sources that know their own resolution.
	PPQNer interface {
		PPQN() int
	}

	// Titler is implemented by sources that know the name of the piece.
	Titler interface {
		Title() string
	}
)

// DefaultStartSig is used for pieces with no time signature.
var DefaultStartSig = pacer.TimeSig{Num: 4, Denom: 4}

// DefaultChordQueue is the capacity of the wanted chord queue.
const DefaultChordQueue = 1000

func New(o Options) *Song {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.ChordQueue <= 0 {
		o.ChordQueue = DefaultChordQueue
	}
	if o.LowWater == (pump.LowWater{}) {
		o.LowWater = pump.DefaultLowWater
	}
	s := &Song{
		tracker: bar.New(o.PPQN, o.SpeedAdjust),
		finder:  chord.NewFinder(),
		chords:  chord.NewQueue(o.ChordQueue),
		score:   score.New(o.ScoreSize),
		logger:  o.Logger,
	}
	s.ppqn = s.tracker.PPQN()
	s.pump = pump.New(s.tracker, nil, pump.Consumers{
		Score:   s.score,
		Matcher: s.finder,
		Chords:  s.chords,
		Sinks:   o.Sinks,
		Output:  o.Output,
		Logger:  o.Logger,
	}, o.PlaybackQueue)
	s.pump.SetLowWater(o.LowWater)
	s.pump.SetActiveChannel(o.Channel)
	s.pump.SetHand(o.Hand)
	return s
}

// Load scans src for the start time signature and the note counts, rewinds
// it and makes it the current piece. Playback is paused; LoadSong and
// ForceFullRedraw are raised.
func (s *Song) Load(src pacer.RewindSource) error {
	info := Info{StartSig: DefaultStartSig}
	sigFound := false
	for {
		ev := src.Next()
		info.Ticks += int64(ev.Delta)
		if ev.IsEOF() {
			break
		}
		info.Events++
		if sig, ok := ev.TimeSig(); ok && !sigFound && sig.Valid() {
			info.StartSig = sig
			sigFound = true
		}
		if ev.Type == pacer.NoteOnEvent && ev.Channel >= 0 && ev.Channel < len(info.NoteCounts) {
			info.NoteCounts[ev.Channel]++
		}
	}
	if err := src.Rewind(); err != nil {
		return fmt.Errorf("could not rewind source: %w", err)
	}
	ppqn := s.ppqn
	if p, ok := src.(PPQNer); ok && p.PPQN() > 0 {
		ppqn = p.PPQN()
	}
	s.tracker.SetPPQN(ppqn)
	if t, ok := src.(Titler); ok {
		info.Title = t.Title()
	}
	s.source = src
	s.info = info
	s.pump.SetPlaying(false)
	s.pump.SetSource(src)
	s.pump.Reset()
	s.tracker.Reset()
	s.tracker.BeginSignature()
	s.tracker.SetSignature(info.StartSig.Num, info.StartSig.Denom)
	s.bits |= pacer.LoadSong | pacer.ForceFullRedraw
	s.logger.Info("song loaded", "title", info.Title, "events", info.Events, "sig", info.StartSig, "ppqn", s.tracker.PPQN())
	return nil
}

// Task advances the song by ticks (scaled by the speed adjust factor) and
// returns the event bits raised since the previous call.
func (s *Song) Task(ticks int) pacer.EventBits {
	bits := s.ReadEventBits()
	if s.source == nil {
		return bits
	}
	bits |= s.pump.Tick(ticks)
	s.score.Scroll(true, s.pump.PlayedTick())
	s.chords.DropBefore(s.pump.PlayedTick())
	if bits.Has(pacer.NewBarNumber) {
		s.logger.Debug("bar", "bar", s.tracker.BarNumber(), "pos", s.tracker.CurrentBarPos())
	}
	return bits
}

// ReadEventBits returns and clears the bits raised outside Task.
func (s *Song) ReadEventBits() pacer.EventBits {
	b := s.bits
	s.bits = 0
	return b
}

// Rewind restarts the piece from the beginning. A pending play-from bar is
// sought again.
func (s *Song) Rewind() error {
	if s.source == nil {
		return nil
	}
	if err := s.source.Rewind(); err != nil {
		return fmt.Errorf("could not rewind source: %w", err)
	}
	s.pump.Reset()
	s.tracker.Rewind()
	s.bits |= pacer.ForceFullRedraw
	return nil
}

// SetPlayFromBar sets the bar playback starts from. The tracker only seeks
// forward, so a target behind the current position restarts the piece.
func (s *Song) SetPlayFromBar(bar float64) error {
	behind := bar < s.tracker.CurrentBarPos()
	s.tracker.SetPlayFromBar(bar)
	if behind {
		return s.Rewind()
	}
	return nil
}

// SetLoopingBars sets the length of the loop; bars ≤ 0 disables looping.
func (s *Song) SetLoopingBars(bars float64) {
	s.tracker.SetLoopingBars(bars)
}

// PlayFromStartBar jumps back to the play-from bar, e.g. when the end of the
// loop is reached.
func (s *Song) PlayFromStartBar() error {
	return s.Rewind()
}

// BackOneBar restarts playback from the bar before the current one.
func (s *Song) BackOneBar() error {
	return s.SetPlayFromBar(float64(max(s.tracker.BarNumber()-1, 0)))
}

// SetActiveChannel selects the channel the wanted chords are taken from.
func (s *Song) SetActiveChannel(channel int) {
	s.pump.SetActiveChannel(channel)
	s.pump.RegenerateChords()
	s.bits |= pacer.ForceRatingRedraw
}

// SetActiveHand selects the hand the wanted chords are filtered by.
func (s *Song) SetActiveHand(hand pacer.Hand) {
	s.pump.SetHand(hand)
	s.pump.RegenerateChords()
	s.bits |= pacer.ForceRatingRedraw
}

// Play starts playback. A piece that has played to its end starts again.
func (s *Song) Play() error {
	if s.source == nil {
		return nil
	}
	if s.pump.Mode() == pump.Drained && s.pump.Queued() == 0 {
		if err := s.Rewind(); err != nil {
			return err
		}
	}
	s.pump.SetPlaying(true)
	return nil
}

func (s *Song) Pause() { s.pump.SetPlaying(false) }

func (s *Song) Playing() bool         { return s.pump.Playing() }
func (s *Song) Loaded() bool          { return s.source != nil }
func (s *Song) Info() Info            { return s.info }
func (s *Song) Tracker() *bar.Tracker { return s.tracker }
func (s *Song) Pump() *pump.Pump      { return s.pump }
func (s *Song) Chords() *chord.Queue  { return s.chords }
func (s *Song) Score() *score.Buffer  { return s.score }
