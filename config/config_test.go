package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/config"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	if c.PPQN != pacer.DefaultPPQN || c.SpeedAdjust != pacer.SpeedAdjustFactor {
		t.Fatalf("ppqn %d speedAdjust %d, want %d and %d", c.PPQN, c.SpeedAdjust, pacer.DefaultPPQN, pacer.SpeedAdjustFactor)
	}
	if c.LowWater != (config.LowWater{Playback: 10, Chord: 10, Score: 100}) {
		t.Fatalf("low water = %+v", c.LowWater)
	}
	if c.TickInterval != 12*time.Millisecond {
		t.Fatalf("tick interval = %v, want 12ms", c.TickInterval)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestMergeOverridesOnlyGivenFields(t *testing.T) {
	c := config.Default()
	err := c.Merge(strings.NewReader("speed: 0.5\nhand: left\nlowWater:\n  score: 50\n"))
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if c.Speed != 0.5 || c.ParsedHand() != pacer.LeftHand || c.LowWater.Score != 50 {
		t.Fatalf("merged config = %+v", c)
	}
	if c.LowWater.Playback != 10 || c.PPQN != pacer.DefaultPPQN {
		t.Fatalf("untouched fields changed: %+v", c)
	}
}

func TestMergeRejectsUnknownFields(t *testing.T) {
	c := config.Default()
	err := c.Merge(strings.NewReader("tempo: 120\n"))
	if !errors.Is(err, config.ErrUnknownField) {
		t.Fatalf("Merge error = %v, want ErrUnknownField", err)
	}
}

func TestMergeRejectsInvalidValues(t *testing.T) {
	for _, doc := range []string{"ppqn: 0\n", "speed: -1\n", "hand: middle\n", "tickInterval: 0s\n"} {
		c := config.Default()
		if err := c.Merge(strings.NewReader(doc)); !errors.Is(err, config.ErrInvalidValue) {
			t.Errorf("Merge(%q) error = %v, want ErrInvalidValue", doc, err)
		}
	}
}

func TestMergeEmptyDocument(t *testing.T) {
	c := config.Default()
	if err := c.Merge(strings.NewReader("")); err != nil {
		t.Fatalf("Merge of an empty document failed: %v", err)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pacer.yml")
	if err := os.WriteFile(path, []byte("activeChannel: 3\nmidiOut: Synth\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.ActiveChannel != 3 || c.MIDIOut != "Synth" {
		t.Fatalf("loaded config = %+v", c)
	}
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("Load of a missing explicit file did not fail")
	}
}
