// Command corec is the compiler driver: the cobra-based CLI exposing
// the frontend action command set, search-path configuration, and the
// interactive evaluator/REPL over the line-oriented message-port
// protocol.
package main

import (
	"fmt"
	"os"
)

// Version info, set by ldflags during release builds.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
