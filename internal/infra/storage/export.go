package storage

import (
	"fmt"
	"io"
)

// WriteMessageRecord writes a message in the plain-text format the original
// simulator used for saved messages. The record is human-readable and
// re-loadable as opaque text; nothing parses it structurally.
func WriteMessageRecord(w io.Writer, msg Message) error {
	_, err := fmt.Fprintf(w,
		"=== ENIGMA ENCRYPTED MESSAGE ===\n"+
			"Date: %s\n"+
			"Input: %s\n"+
			"Output: %s\n"+
			"Ring Settings: %s\n"+
			"Initial Positions: %s\n"+
			"Plugboard Pairs: %s\n"+
			"=== END MESSAGE ===\n",
		msg.Timestamp.Format("2006-01-02T15:04:05"),
		msg.Input, msg.Output,
		msg.RingSettings, msg.InitialPositions, msg.PlugboardPairs,
	)
	return err
}
