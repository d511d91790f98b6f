//go:build !cgo

package cmd

import (
	"log/slog"

	"github.com/vsariola/pacer"
)

func NewMIDIOutput(prefix string, logger *slog.Logger) (pacer.Output, func()) {
	// with no cgo, we cannot use MIDI, so events are dropped
	logger.Warn("built without cgo, MIDI output not available")
	return pacer.NullOutput{}, func() {}
}
