package cmd

import "flag"

// IsFlagPassed reports whether the named flag was given on the command line.
func IsFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
