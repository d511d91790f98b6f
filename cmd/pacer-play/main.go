package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/clock"
	"github.com/vsariola/pacer/cmd"
	"github.com/vsariola/pacer/config"
	"github.com/vsariola/pacer/gomidi"
	"github.com/vsariola/pacer/logger"
	"github.com/vsariola/pacer/player"
	"github.com/vsariola/pacer/pump"
	"github.com/vsariola/pacer/song"
	"github.com/vsariola/pacer/version"
)

var (
	configPath  = flag.String("config", "", "read settings from `file` instead of the user config directory")
	from        = flag.Float64("from", 0, "start playing from `bar` (may be fractional, bars count from 0)")
	loop        = flag.Float64("loop", 0, "loop this many `bars` starting from the bar given by -from; 0 disables looping")
	speed       = flag.Float64("speed", 1, "playback speed factor, e.g. 0.5 for half speed")
	channel     = flag.Int("channel", 0, "active `channel` the wanted chords are taken from")
	hand        = flag.String("hand", "both", "hand the wanted chords are filtered by: both, right or left")
	logLevel    = flag.String("loglevel", "info", "log level: debug, info, warn or error")
	midiOut     = flag.String("midi-out", "", "connect to the MIDI output whose name starts with `prefix`")
	versionFlag = flag.Bool("v", false, "Print version.")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String("pacer-play"))
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := applyFlags(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid arguments: %v\n", err)
		os.Exit(2)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "could not initialize logging: %v\n", err)
		os.Exit(2)
	}
	if err := play(flag.Arg(0), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "could not play %v: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
}

// applyFlags overrides the config with the flags given on the command line.
func applyFlags(cfg *config.Config) error {
	if cmd.IsFlagPassed("speed") {
		cfg.Speed = *speed
	}
	if cmd.IsFlagPassed("channel") {
		cfg.ActiveChannel = *channel
	}
	if cmd.IsFlagPassed("hand") {
		cfg.Hand = *hand
	}
	if cmd.IsFlagPassed("loglevel") {
		cfg.LogLevel = *logLevel
	}
	if cmd.IsFlagPassed("midi-out") {
		cfg.MIDIOut = *midiOut
	}
	return cfg.Validate()
}

func play(path string, cfg config.Config) error {
	log := logger.Get()
	src, err := gomidi.ReadFile(path)
	if err != nil {
		return err
	}
	out, closeOut := cmd.NewMIDIOutput(cfg.MIDIOut, log)
	defer closeOut()
	// the song switches to the resolution of the file on load, and the player
	// syncs the clock to it
	clk := clock.New(cfg.PPQN, cfg.SpeedAdjust)
	clk.SetSpeed(cfg.Speed)
	s := song.New(song.Options{
		PPQN:          cfg.PPQN,
		SpeedAdjust:   cfg.SpeedAdjust,
		LowWater:      pump.LowWater(cfg.LowWater),
		PlaybackQueue: cfg.Queues.Playback,
		ChordQueue:    cfg.Queues.Chords,
		ScoreSize:     cfg.Queues.Score,
		Output:        player.TempoTracking(clk, out),
		Logger:        log,
		Channel:       cfg.ActiveChannel,
		Hand:          cfg.ParsedHand(),
	})
	if err := s.Load(src); err != nil {
		return err
	}
	p := player.New(s, clk, cfg.TickInterval, log)
	p.StopAtEnd = *loop <= 0
	if *from > 0 {
		p.ToPlayer <- player.PlayFromBarMsg{Bar: *from}
	}
	if *loop > 0 {
		p.ToPlayer <- player.LoopingBarsMsg{Bars: *loop}
	}
	p.ToPlayer <- player.NewIsPlayingMsg(true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go report(ctx, p.ToModel)
	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// report logs bar changes, seeks and loop jumps.
func report(ctx context.Context, statuses <-chan player.Status) {
	log := logger.Get()
	for {
		select {
		case <-ctx.Done():
			return
		case st := <-statuses:
			switch {
			case st.Bits.Has(pacer.UptoBarReached):
				log.Info("loop", "bar", st.Pos.Bar, "bits", st.Bits)
			case st.Bits.Has(pacer.NewBarNumber):
				log.Info("bar", "bar", st.Pos.Bar, "sig", st.Sig)
			case st.Bits.Has(pacer.PlayingStopped):
				log.Info("end", "bar", st.Pos.Bar)
			}
		}
	}
}

func printUsage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Sends a MIDI file to a MIDI output in real time, reporting bars as they pass.\nUsage: %s [flags] file.mid\n", os.Args[0])
	flag.PrintDefaults()
}
