// Package player drives a song.Song in real time: a ticker converts wall time
// into ticks with a clock.Clock, control messages are applied between ticks,
// and the loop end jumps back to the play-from bar.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/bar"
	"github.com/vsariola/pacer/clock"
	"github.com/vsariola/pacer/pump"
	"github.com/vsariola/pacer/song"
)

type (
	// Player owns the song while Run is executing; other goroutines control
	// it only by sending messages to ToPlayer and read its state from
	// ToModel.
	Player struct {
		song     *song.Song
		clock    *clock.Clock
		interval time.Duration
		logger   *slog.Logger

		// StopAtEnd makes Run return when playback reaches the end of the
		// piece.
		StopAtEnd bool

		ToPlayer chan any    // messages to the player, see the *Msg types
		ToModel  chan Status // state reports, sent without blocking
	}

	// Status is reported after every step that raised event bits.
	Status struct {
		Bits    pacer.EventBits
		Pos     bar.Pos
		BarPos  float64
		Sig     pacer.TimeSig
		Playing bool
		Mode    pump.Mode
	}

	IsPlayingMsg   struct{ bool }
	PlayFromBarMsg struct{ Bar float64 }
	LoopingBarsMsg struct{ Bars float64 }
	BackOneBarMsg  struct{}
	RewindMsg      struct{}
	SpeedMsg       struct{ Speed float64 }
	ChannelMsg     struct{ Channel int }
	HandMsg        struct{ Hand pacer.Hand }
	LoadMsg        struct{ Source pacer.RewindSource }

	// tempoOutput forwards played events and follows tempo changes.
	tempoOutput struct {
		clock *clock.Clock
		next  pacer.Output
	}
)

// DefaultInterval is the tick period of Run.
const DefaultInterval = 12 * time.Millisecond

const messageQueueSize = 64

// New returns a player for s. The clock's resolution is set to the tracker's.
func New(s *song.Song, c *clock.Clock, interval time.Duration, logger *slog.Logger) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	c.SetPPQN(s.Tracker().PPQN())
	return &Player{
		song:     s,
		clock:    c,
		interval: interval,
		logger:   logger,
		ToPlayer: make(chan any, messageQueueSize),
		ToModel:  make(chan Status, messageQueueSize),
	}
}

// TempoTracking returns an output that sets the tempo of c on tempo events
// and passes every event on to next.
func TempoTracking(c *clock.Clock, next pacer.Output) pacer.Output {
	if next == nil {
		next = pacer.NullOutput{}
	}
	return &tempoOutput{clock: c, next: next}
}

func (o *tempoOutput) Play(ev pacer.Event) {
	if ev.Type == pacer.TempoEvent {
		o.clock.SetTempo(ev.Tempo)
	}
	o.next.Play(ev)
}

func NewIsPlayingMsg(playing bool) IsPlayingMsg { return IsPlayingMsg{playing} }

// Run steps the player every interval until ctx is cancelled, or, with
// StopAtEnd, until playback reaches the end.
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			bits, err := p.Step(now)
			if err != nil {
				return err
			}
			if p.StopAtEnd && bits.Has(pacer.PlayingStopped) {
				return nil
			}
		}
	}
}

// Step applies the pending messages and advances the song by the time passed
// since the previous step.
func (p *Player) Step(now time.Time) (pacer.EventBits, error) {
	if err := p.processMessages(); err != nil {
		return 0, err
	}
	ticks := 0
	if p.song.Playing() {
		ticks = p.clock.Since(now)
	}
	bits := p.song.Task(ticks)
	if bits.Has(pacer.UptoBarReached) && p.song.Tracker().Looping() {
		p.logger.Debug("loop end reached", "bar", p.song.Tracker().BarNumber())
		if err := p.song.PlayFromStartBar(); err != nil {
			return bits, fmt.Errorf("could not jump back to the start of the loop: %w", err)
		}
		bits |= p.song.Task(0)
	}
	if bits.Has(pacer.PlayingStopped) {
		p.logger.Info("playing stopped", "bar", p.song.Tracker().BarNumber())
	}
	if bits != 0 {
		TrySend(p.ToModel, p.status(bits))
	}
	return bits, nil
}

func (p *Player) status(bits pacer.EventBits) Status {
	t := p.song.Tracker()
	return Status{
		Bits:    bits,
		Pos:     t.Pos(),
		BarPos:  t.CurrentBarPos(),
		Sig:     t.TimeSig(),
		Playing: p.song.Playing(),
		Mode:    p.song.Pump().Mode(),
	}
}

func (p *Player) processMessages() error {
	for {
		select {
		case msg := <-p.ToPlayer:
			if err := p.handle(msg); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (p *Player) handle(msg any) error {
	switch m := msg.(type) {
	case IsPlayingMsg:
		if m.bool {
			p.clock.Restart()
			return p.song.Play()
		}
		p.song.Pause()
	case PlayFromBarMsg:
		return p.song.SetPlayFromBar(m.Bar)
	case LoopingBarsMsg:
		p.song.SetLoopingBars(m.Bars)
	case BackOneBarMsg:
		return p.song.BackOneBar()
	case RewindMsg:
		return p.song.Rewind()
	case SpeedMsg:
		p.clock.SetSpeed(m.Speed)
	case ChannelMsg:
		p.song.SetActiveChannel(m.Channel)
	case HandMsg:
		p.song.SetActiveHand(m.Hand)
	case LoadMsg:
		if err := p.song.Load(m.Source); err != nil {
			return fmt.Errorf("could not load song: %w", err)
		}
		p.clock.SetPPQN(p.song.Tracker().PPQN())
		p.clock.SetTempo(clock.DefaultTempo)
		p.clock.Restart()
	default:
		// ignore unknown messages
	}
	return nil
}

// TrySend is a helper function to send a value to a channel if it is not
// full. It is guaranteed to be non-blocking. Return true if the value was
// sent, false otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// Song returns the driven song. It must not be used while Run executes.
func (p *Player) Song() *song.Song { return p.song }
