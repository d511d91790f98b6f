//go:build cgo

package cmd

import (
	"log/slog"

	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/gomidi"
)

// NewMIDIOutput opens the first rtmidi output port whose name starts with
// prefix; an empty prefix takes the first port. If no port can be opened,
// events are dropped. The returned function closes the port.
func NewMIDIOutput(prefix string, logger *slog.Logger) (pacer.Output, func()) {
	ctx := gomidi.NewContext()
	sender, err := ctx.OpenOutput(prefix, prefix == "")
	if err != nil {
		logger.Warn("no MIDI output, playing silently", "error", err)
		ctx.Close()
		return pacer.NullOutput{}, func() {}
	}
	logger.Info("MIDI output opened", "port", sender)
	return gomidi.NewOutput(sender, logger), ctx.Close
}
