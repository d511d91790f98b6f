// Package pump drives a bar.Tracker in real time while feeding events pulled
// from a source to the score renderer, the chord matcher and the playback
// queue, honoring the free space each of them reports.
package pump

import (
	"log/slog"
	"slices"

	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/bar"
	"github.com/vsariola/pacer/queue"
)

type (
	// Pump is the real-time engine. Tick is called by an external clock; it
	// advances the tracker, plays the queued events that became due and pulls
	// new events from the source while all consumers have room for them.
	//
	// The pump is single threaded: all methods must be called from the same
	// goroutine (typically the one owning the song).
	Pump struct {
		tracker  *bar.Tracker
		source   pacer.Source
		score    pacer.Score
		matcher  pacer.ChordMatcher
		chords   pacer.ChordSink
		sinks    []pacer.EventSink
		output   pacer.Output
		logger   *slog.Logger
		lowWater LowWater

		playback *queue.RingBuffer[pacer.Event] // pulled but not yet played events
		sounding []noteKey                      // notes sent to the output and not yet released

		channel int
		hand    pacer.Hand

		playing    bool
		eof        bool
		mode       Mode
		sinceLast  int   // scaled ticks elapsed since the last played event
		playedTick int64 // absolute unscaled tick of the last played event
	}

	// Consumers are the collaborators of the pump. Nil fields are replaced
	// with implementations that have unlimited space and discard everything.
	Consumers struct {
		Score   pacer.Score
		Matcher pacer.ChordMatcher
		Chords  pacer.ChordSink
		Sinks   []pacer.EventSink
		Output  pacer.Output
		Logger  *slog.Logger
	}

	// LowWater are the free space thresholds of the drain loop: an event is
	// pulled only if every queue has strictly more free slots than its
	// threshold.
	LowWater struct {
		Playback int
		Chord    int
		Score    int
	}

	// Mode is the state of the drain loop.
	Mode int

	noteKey struct {
		channel, note int
	}
)

const (
	// Normal: events are pulled as long as the consumers have room.
	Normal Mode = iota
	// SeekingQuiet: the tracker is seeking; queued events are played without
	// waiting and the renderer discards symbols without displaying them.
	SeekingQuiet
	// Drained: the end of stream has been pulled, nothing more is pulled
	// until Reset.
	Drained
)

// DefaultLowWater are the thresholds used unless SetLowWater is called.
var DefaultLowWater = LowWater{Playback: 10, Chord: 10, Score: 100}

// DefaultQueueSize is the capacity of the playback queue.
const DefaultQueueSize = 1000

func (m Mode) String() string {
	switch m {
	case SeekingQuiet:
		return "seeking"
	case Drained:
		return "drained"
	}
	return "normal"
}

// New returns a pump that advances tracker and pulls events from source.
// queueSize ≤ 0 uses DefaultQueueSize.
func New(tracker *bar.Tracker, source pacer.Source, c Consumers, queueSize int) *Pump {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	p := &Pump{
		tracker:  tracker,
		source:   source,
		score:    c.Score,
		matcher:  c.Matcher,
		chords:   c.Chords,
		sinks:    c.Sinks,
		output:   c.Output,
		logger:   c.Logger,
		lowWater: DefaultLowWater,
		playback: queue.New[pacer.Event](queueSize),
	}
	if p.score == nil {
		p.score = pacer.NullScore{}
	}
	if p.output == nil {
		p.output = pacer.NullOutput{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Tick advances the pump by delta ticks (scaled by the speed adjust factor of
// the tracker) and returns the event bits raised during the call.
func (p *Pump) Tick(delta int) pacer.EventBits {
	wasSeeking := p.tracker.Seeking()
	bits := p.advance(delta)
	for {
		pulled := p.drain()
		// queued events still count after the end of stream: a seek into the
		// tail of a short piece resolves in the same tick
		if !p.playing || !p.tracker.Seeking() || (p.eof && p.playback.Len() == 0) {
			break
		}
		// race ahead to the seek target without waiting for the renderer
		p.mode = SeekingQuiet
		pos, queued, free := p.tracker.CurrentBarPos(), p.playback.Len(), p.score.FreeSpace()
		bits |= p.advance(0)
		p.score.Scroll(false, p.playedTick)
		if pulled == 0 && pos == p.tracker.CurrentBarPos() && queued == p.playback.Len() && free >= p.score.FreeSpace() {
			break // no consumer made room and there was nothing to play
		}
	}
	if p.mode == SeekingQuiet && (p.eof || !p.playing || !p.tracker.Seeking()) {
		p.mode = Normal
	}
	if wasSeeking && !p.tracker.Seeking() {
		p.logger.Debug("seek done", "bar", p.tracker.BarNumber(), "pos", p.tracker.CurrentBarPos())
		bits |= pacer.ForceFullRedraw
	}
	if p.eof && p.mode == Normal {
		p.mode = Drained
	}
	return bits
}

// drain pulls events while the consumers have room and returns how many were
// pulled.
func (p *Pump) drain() (pulled int) {
	for !p.eof && p.hasSpace() {
		ev := p.source.Next()
		pulled++
		p.route(ev)
		if ev.IsEOF() {
			p.eof = true
			p.logger.Debug("end of stream pulled", "queued", p.playback.Len())
		}
	}
	return pulled
}

func (p *Pump) hasSpace() bool {
	if p.playback.FreeSpace() <= p.lowWater.Playback {
		return false
	}
	if p.chords != nil && p.chords.FreeSpace() <= p.lowWater.Chord {
		return false
	}
	if p.score.FreeSpace() <= p.lowWater.Score {
		return false
	}
	for _, s := range p.sinks {
		if s.FreeSpace() <= 0 {
			return false
		}
	}
	return true
}

// route hands the event to the chord matcher first, then to every consumer,
// in the order the events were pulled.
func (p *Pump) route(ev pacer.Event) {
	if p.matcher != nil {
		if c, ok := p.matcher.TryMatch(ev, p.channel, p.hand); ok && p.chords != nil {
			p.chords.InsertChord(c)
		}
	}
	p.score.Insert(ev)
	for _, s := range p.sinks {
		s.Insert(ev)
	}
	p.playback.Push(ev)
}

// advance moves the tracker forward by delta and plays the queued events that
// became due. While the tracker is seeking, queued events are played as fast as
// possible without sounding the notes, and wall clock time does not move the
// tracker, not even after the seek ends within the call.
func (p *Pump) advance(delta int) pacer.EventBits {
	var bits pacer.EventBits
	budget := max(delta, 0)
	if p.tracker.Seeking() {
		budget = 0
	}
	speedAdjust := p.tracker.SpeedAdjust()
	for p.playing {
		ev, ok := p.playback.Peek()
		if !ok {
			break
		}
		due := max(ev.Delta*speedAdjust-p.sinceLast, 0)
		if !p.tracker.Seeking() {
			if due > budget {
				break
			}
			budget -= due
		}
		bits |= p.tracker.Advance(due)
		p.playback.Pop()
		p.sinceLast = 0
		p.playedTick += int64(ev.Delta)
		bits |= p.play(ev)
	}
	if !p.playing || p.tracker.Seeking() {
		budget = 0
	}
	p.sinceLast += budget
	return bits | p.tracker.Advance(budget)
}

func (p *Pump) play(ev pacer.Event) pacer.EventBits {
	switch ev.Type {
	case pacer.TimeSigEvent:
		sig, _ := ev.TimeSig()
		p.tracker.SetSignature(sig.Num, sig.Denom)
		p.logger.Debug("time signature", "sig", sig, "bar", p.tracker.BarNumber())
	case pacer.EOFEvent:
		p.playing = false
		p.silence()
		p.logger.Debug("playing stopped", "bar", p.tracker.BarNumber())
		return pacer.PlayingStopped
	case pacer.NoteOnEvent:
		if p.tracker.Seeking() {
			return 0
		}
		p.hold(noteKey{ev.Channel, ev.Note()})
		p.output.Play(ev)
	case pacer.NoteOffEvent:
		// notes skipped by a seek were never sent, so neither is their release
		if !p.release(noteKey{ev.Channel, ev.Note()}) && p.tracker.Seeking() {
			return 0
		}
		p.output.Play(ev)
	default:
		p.output.Play(ev)
	}
	return 0
}

func (p *Pump) hold(k noteKey) {
	if !slices.Contains(p.sounding, k) {
		p.sounding = append(p.sounding, k)
	}
}

func (p *Pump) release(k noteKey) bool {
	i := slices.Index(p.sounding, k)
	if i < 0 {
		return false
	}
	p.sounding = slices.Delete(p.sounding, i, i+1)
	return true
}

// silence sends a note off for every note that is still sounding.
func (p *Pump) silence() {
	for _, k := range p.sounding {
		p.output.Play(pacer.NoteOff(0, k.channel, k.note, 0))
	}
	if len(p.sounding) > 0 {
		p.logger.Debug("notes silenced", "count", len(p.sounding))
	}
	p.sounding = p.sounding[:0]
}

// Reset empties the playback queue, the chord queue and the score, clears the
// end of stream latch and releases the notes still sounding. The source and
// the tracker are not touched.
func (p *Pump) Reset() {
	p.silence()
	p.playback.Clear()
	p.eof = false
	p.mode = Normal
	p.sinceLast = 0
	p.playedTick = 0
	if p.matcher != nil {
		p.matcher.Reset(0)
	}
	if p.chords != nil {
		p.chords.Clear()
	}
	p.score.Reset()
}

// RegenerateChords runs the chord matcher again over the events that have
// been pulled but not played yet, e.g. after the active channel or hand
// changed.
func (p *Pump) RegenerateChords() {
	if p.matcher == nil {
		return
	}
	p.matcher.Reset(p.playedTick)
	if p.chords != nil {
		p.chords.Clear()
	}
	for _, ev := range p.playback.All {
		if c, ok := p.matcher.TryMatch(ev, p.channel, p.hand); ok && p.chords != nil {
			p.chords.InsertChord(c)
		}
	}
}

func (p *Pump) SetPlaying(playing bool) {
	if p.playing == playing {
		return
	}
	p.playing = playing
	if !playing {
		p.silence()
	}
	p.logger.Debug("playing", "playing", playing, "bar", p.tracker.BarNumber())
}

func (p *Pump) SetLowWater(l LowWater)       { p.lowWater = l }
func (p *Pump) SetActiveChannel(channel int) { p.channel = channel }
func (p *Pump) SetHand(hand pacer.Hand)      { p.hand = hand.Clamp() }
func (p *Pump) SetSource(s pacer.Source)     { p.source = s }

func (p *Pump) Playing() bool         { return p.playing }
func (p *Pump) EOF() bool             { return p.eof }
func (p *Pump) Mode() Mode            { return p.mode }
func (p *Pump) Queued() int           { return p.playback.Len() }
func (p *Pump) Sounding() int         { return len(p.sounding) }
func (p *Pump) ActiveChannel() int    { return p.channel }
func (p *Pump) Hand() pacer.Hand      { return p.hand }
func (p *Pump) Tracker() *bar.Tracker { return p.tracker }
func (p *Pump) PlayedTick() int64     { return p.playedTick }
