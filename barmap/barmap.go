// Package barmap lays a piece out bar by bar: where each bar starts, its time
// signature and what happens in it. The map can be written as YAML, JSON or
// through a text/template.
package barmap

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/vsariola/pacer"
	"github.com/vsariola/pacer/bar"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type (
	Map struct {
		Title string `yaml:"title,omitempty" json:"title,omitempty"`
		PPQN  int    `yaml:"ppqn" json:"ppqn"`
		Ticks int64  `yaml:"ticks" json:"ticks"`
		Bars  []Bar  `yaml:"bars" json:"bars"`
	}

	Bar struct {
		Number int            `yaml:"number" json:"number"`
		Start  int64          `yaml:"start" json:"start"`
		Sig    string         `yaml:"sig" json:"sig"`
		Notes  int            `yaml:"notes" json:"notes"`
		Events map[string]int `yaml:"events,omitempty" json:"events,omitempty"`
	}
)

// DefaultSig is assumed until the piece gives a time signature.
var DefaultSig = pacer.TimeSig{Num: 4, Denom: 4}

// Build reads src to its end. The events are counted in the bar they fall
// in, with title cased event type names as keys.
func Build(src pacer.Source, ppqn int) *Map {
	caser := cases.Title(language.English)
	t := bar.New(ppqn, 1)
	t.BeginSignature()
	m := &Map{PPQN: t.PPQN()}
	installed := false
	for {
		ev := src.Next()
		sig, isSig := ev.TimeSig()
		if !installed && (ev.Delta > 0 || m.Ticks > 0 || !isSig) {
			t.SetSignature(DefaultSig.Num, DefaultSig.Denom)
			installed = true
		}
		t.Advance(ev.Delta)
		m.Ticks += int64(ev.Delta)
		if isSig {
			t.SetSignature(sig.Num, sig.Denom)
			installed = true
		}
		if ev.IsEOF() {
			break
		}
		b := m.at(t, m.Ticks)
		if ev.Type == pacer.NoteOnEvent {
			b.Notes++
		}
		if b.Events == nil {
			b.Events = map[string]int{}
		}
		b.Events[caser.String(ev.Type.String())]++
	}
	if len(m.Bars) == 0 || t.Beat() > 0 || t.Tick() > 0 {
		m.at(t, m.Ticks) // the last partial bar
	}
	return m
}

// at returns the entry of the current bar of t, adding the bars up to it.
func (m *Map) at(t *bar.Tracker, tick int64) *Bar {
	start := tick - int64(t.Beat()*t.BeatLength()+t.Tick())
	for n := len(m.Bars); n <= t.BarNumber(); n++ {
		m.Bars = append(m.Bars, Bar{
			Number: n,
			Start:  start - int64((t.BarNumber()-n)*t.BarLength()),
			Sig:    t.TimeSig().String(),
		})
	}
	b := &m.Bars[t.BarNumber()]
	if b.Start == start {
		b.Sig = t.TimeSig().String()
	}
	return b
}

// BarAt returns the bar containing tick, or false if tick is outside the
// piece.
func (m *Map) BarAt(tick int64) (Bar, bool) {
	if tick < 0 || tick >= m.Ticks {
		return Bar{}, false
	}
	for i := len(m.Bars) - 1; i >= 0; i-- {
		if m.Bars[i].Start <= tick {
			return m.Bars[i], true
		}
	}
	return Bar{}, false
}

func (m *Map) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("could not encode bar map: %w", err)
	}
	return enc.Close()
}

func (m *Map) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// WriteTemplate executes text with the map as data. The sprig functions are
// available.
func (m *Map) WriteTemplate(w io.Writer, text string) error {
	tmpl, err := template.New("barmap").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("could not parse template: %w", err)
	}
	if err := tmpl.Execute(w, m); err != nil {
		return fmt.Errorf("could not execute template: %w", err)
	}
	return nil
}
