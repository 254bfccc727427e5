// Package platform supplies hardware access behind small contracts: an I2C
// bus for the motor driver, GPIO pins, a UART port for console forwarding
// and a byte-stream dial for the command link. Host builds provide fakes
// usable from tests; rp2040 builds bind the real peripherals.
package platform

import (
	"context"
	"io"
)

// Pull selects the input bias of a GPIO pin.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// GPIOPin is one digital pin.
type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// UARTPort is a byte-stream serial port.
type UARTPort interface {
	Write(p []byte) (int, error)
	RecvSomeContext(ctx context.Context, p []byte) (int, error)
	SetBaudRate(br uint32)
}

// LinkDial opens the byte transport carrying inbound command buffers.
// Injected into the link service by the platform bootstrap.
type LinkDial func(ctx context.Context) (io.ReadWriteCloser, error)
