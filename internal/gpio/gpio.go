// Package gpio drives a single output line that shows whether a work interval
// is running. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import (
	"log"
	"time"

	"github.com/sweeney/yolodoro/internal/logic"
)

// Indicator drives a binary output.
type Indicator interface {
	// Set drives the line high (on) or low (off).
	Set(on bool) error

	// Close releases GPIO resources and leaves the line safe.
	Close() error
}

// DefaultChip is the GPIO character device used on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// Observer lights the indicator for work intervals and clears it for breaks.
type Observer struct {
	Indicator Indicator
}

// Observe sets the line for the interval that just started.
func (o Observer) Observe(iv logic.Interval, _ time.Time) {
	on := iv.Phase == logic.PhaseWorking
	if err := o.Indicator.Set(on); err != nil {
		log.Printf("gpio: set %v failed: %v", on, err)
	}
}
