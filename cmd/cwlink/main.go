// cwlink is a two-station CW keyer and audio intercom over TCP.
//
// One side listens and the other connects. Each side sends keyed CW tone
// or, while the talk key is held, its microphone to the other.
//
// Usage:
//
//	cwlink 5000                     # listen on port 5000
//	cwlink 5000 192.168.1.20        # connect to a listening station
//	cwlink 5000 --console terminal  # run in the terminal instead of a window
//	cwlink config context list      # list station profiles
//	cwlink devices                  # list audio devices
//
// Configuration is stored in ~/.giztoy/cwlink/
package main

import (
	"os"

	"github.com/haivivi/cwlink/cmd/cwlink/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
