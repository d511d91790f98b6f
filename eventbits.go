package pacer

import "strings"

// EventBits is a set of independent state change notifications that can be
// OR'ed together. A set is returned by value from each advance of the tracker
// and each tick of the pump; several bits raised in one call are all delivered.
type EventBits uint32

const (
	PlayingStopped    EventBits = 1 << iota // end of the piece was reached
	ForceFullRedraw                         // the whole screen should be redrawn
	ForceRatingRedraw                       // the score should be redrawn
	NewBarNumber                            // the bar counter changed
	UptoBarReached                          // loop end hit, jump back to the play-from bar
	LoadSong                                // a new song was loaded, consumers should reset
)

var eventBitNames = []struct {
	bit  EventBits
	name string
}{
	{PlayingStopped, "PlayingStopped"},
	{ForceFullRedraw, "ForceFullRedraw"},
	{ForceRatingRedraw, "ForceRatingRedraw"},
	{NewBarNumber, "NewBarNumber"},
	{UptoBarReached, "UptoBarReached"},
	{LoadSong, "LoadSong"},
}

// Has reports if all the bits of o are set in b.
func (b EventBits) Has(o EventBits) bool { return o != 0 && b&o == o }

func (b EventBits) String() string {
	if b == 0 {
		return "0"
	}
	var names []string
	for _, n := range eventBitNames {
		if b&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}
