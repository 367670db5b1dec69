// Command opushead inspects and writes Opus identification headers.
//
// Usage:
//
//	opushead [flags] <command> [args]
//
// Commands:
//
//	inspect  - print the OpusHead of an Ogg Opus file or a raw header
//	write    - build a canonical OpusHead packet
//	rewrite  - copy an Ogg Opus stream with a canonical OpusHead
//
// Configuration:
//
//	A YAML file named by --config or $OPUSHEAD_CONFIG supplies the log
//	settings and default header values.
package main

import (
	"fmt"
	"os"

	"github.com/thesyncim/opushead/cmd/opushead/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
