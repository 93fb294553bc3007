// Command yolodoro is the simplest Pomodoro timer you can think of.
//
// It alternates work intervals with short breaks, and every fourth break is a
// long one. Transitions are printed to stdout and sent as desktop
// notifications. Optionally they are also published to MQTT, shown on a GPIO
// line and served on a small status page. Ctrl-C stops it.
package main

import (
	"fmt"
	"os"
)

const appName = "yolodoro"

func main() {
	cmd := newRootCommand(defaultDeps())
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
