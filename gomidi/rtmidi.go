//go:build cgo

package gomidi

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	// RTMIDIContext holds the rtmidi driver and the currently open output
	// port.
	RTMIDIContext struct {
		driver     *rtmididrv.Driver
		currentOut drivers.Out
	}
)

// NewContext opens the rtmidi driver. If the driver cannot be opened, the
// context has no ports and OpenOutput always fails.
func NewContext() *RTMIDIContext {
	m := RTMIDIContext{}
	m.driver, _ = rtmididrv.New()
	return &m
}

// Outputs yields the names of the available output ports.
func (c *RTMIDIContext) Outputs(yield func(string) bool) {
	if c.driver == nil {
		return
	}
	outs, err := c.driver.Outs()
	if err != nil {
		return
	}
	for _, out := range outs {
		if !yield(out.String()) {
			return
		}
	}
}

// OpenOutput opens the first output port whose name starts with namePrefix,
// closing the currently open port. With takeFirst, the first port is opened
// regardless of its name.
func (c *RTMIDIContext) OpenOutput(namePrefix string, takeFirst bool) (Sender, error) {
	if c.driver == nil {
		return nil, errors.New("no MIDI driver available")
	}
	outs, err := c.driver.Outs()
	if err != nil {
		return nil, fmt.Errorf("listing MIDI outputs failed: %w", err)
	}
	for _, out := range outs {
		if !takeFirst && !strings.HasPrefix(out.String(), namePrefix) {
			continue
		}
		if c.currentOut != nil && c.currentOut.IsOpen() {
			c.currentOut.Close()
		}
		if err := out.Open(); err != nil {
			return nil, fmt.Errorf("opening MIDI output %v failed: %w", out, err)
		}
		c.currentOut = out
		return out, nil
	}
	if takeFirst {
		return nil, errors.New("could not find any MIDI output")
	}
	return nil, fmt.Errorf("could not find any MIDI output starting with %q", namePrefix)
}

// Close closes the open port and the driver.
func (c *RTMIDIContext) Close() {
	if c.driver == nil {
		return
	}
	if c.currentOut != nil && c.currentOut.IsOpen() {
		c.currentOut.Close()
	}
	c.driver.Close()
}
