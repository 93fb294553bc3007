//go:build !unix

package shutdown

import "os"

var interruptSignals = []os.Signal{os.Interrupt}
