package pacer

type (
	// Source is a pull-style producer of decoded events. After the stream is
	// exhausted, Next returns an EOFEvent (and keeps returning it).
	Source interface {
		Next() Event
	}

	// Rewinder is implemented by sources that can restart from the first
	// event.
	Rewinder interface {
		Rewind() error
	}

	// RewindSource is a Source that can be restarted.
	RewindSource interface {
		Source
		Rewinder
	}

	// EventSink is a consumer of events with bounded capacity. FreeSpace
	// returns how many more events the sink can take right now; Insert must not
	// block.
	EventSink interface {
		FreeSpace() int
		Insert(ev Event)
	}

	// Score is the renderer side of the pump. Scroll advances the renderer's
	// internal queue up to the absolute tick now; when show is false the
	// symbols passed are discarded without drawing them.
	Score interface {
		EventSink
		Scroll(show bool, now int64)
		Reset()
	}

	// ChordMatcher decides when the events seen so far make up a chord that
	// the pianist should play. It sees every event, in order. Reset forgets
	// the partial chord; the next event is taken to be startTick ticks from
	// the start of the stream.
	ChordMatcher interface {
		TryMatch(ev Event, channel int, hand Hand) (Chord, bool)
		Reset(startTick int64)
	}

	// ChordSink is the queue of chords the playback conductor waits for.
	ChordSink interface {
		FreeSpace() int
		InsertChord(c Chord)
		Clear()
	}

	// Output receives the events as they are played back.
	Output interface {
		Play(ev Event)
	}
)

// NullOutput discards all events.
type NullOutput struct{}

func (NullOutput) Play(Event) {}

// NullScore is a Score with unlimited space that displays nothing.
type NullScore struct{}

func (NullScore) FreeSpace() int     { return 1 << 30 }
func (NullScore) Insert(Event)       {}
func (NullScore) Scroll(bool, int64) {}
func (NullScore) Reset()             {}
