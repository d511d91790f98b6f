package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vsariola/pacer/barmap"
	"github.com/vsariola/pacer/gomidi"
	"github.com/vsariola/pacer/version"
)

func main() {
	format := flag.String("format", "yaml", "output format: yaml or json")
	tmpl := flag.String("t", "", "format the bar map with a text/template; sprig functions are available. Overrides -format")
	tmplFile := flag.String("tf", "", "read the template from `file`. Overrides -format")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String("pacer-bars"))
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if *tmplFile != "" {
		b, err := os.ReadFile(*tmplFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read template %v: %v\n", *tmplFile, err)
			os.Exit(1)
		}
		*tmpl = string(b)
	}
	retval := 0
	for _, filename := range flag.Args() {
		if err := process(os.Stdout, filename, *format, *tmpl); err != nil {
			fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", filename, err)
			retval = 1
		}
	}
	os.Exit(retval)
}

func process(w io.Writer, filename, format, tmpl string) error {
	src, err := gomidi.ReadFile(filename)
	if err != nil {
		return err
	}
	m := barmap.Build(src, src.PPQN())
	m.Title = src.Title()
	if tmpl != "" {
		return m.WriteTemplate(w, tmpl)
	}
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return m.WriteYAML(w)
	case "json":
		return m.WriteJSON(w)
	}
	return fmt.Errorf("unknown format %q", format)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Prints where the bars of MIDI files start, with their time signatures and events.\nUsage: %s [flags] [file1.mid] [file2.mid] ...\n", os.Args[0])
	flag.PrintDefaults()
}
