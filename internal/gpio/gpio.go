// Package gpio provides the hardware reset button with a hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "time"

// Button reports presses of a momentary push button wired between a GPIO
// line and ground. The press callback runs on a goroutine owned by the
// implementation and must not block.
type Button interface {
	// Close stops watching the line and releases GPIO resources.
	Close() error
}

// PinReset is the default reset button line (BCM numbering).
const PinReset = 17

// DefaultDebounce filters contact bounce on the button line.
const DefaultDebounce = 50 * time.Millisecond
