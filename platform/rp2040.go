//go:build rp2040

package platform

import (
	"context"
	"io"
	"machine"
	"sync"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"

	"github.com/Xavialess/Stride/errcode"
)

// Board wiring for the haptic controller build (Pico / RP2040).
const (
	pinSDA     = machine.Pin(12)
	pinSCL     = machine.Pin(13)
	pinLED     = machine.Pin(25)
	pinUART0TX = machine.Pin(0)
	pinUART0RX = machine.Pin(1)
	pinUART1TX = machine.Pin(4)
	pinUART1RX = machine.Pin(5)

	i2cFrequency = 400_000
	consoleBaud  = 115200
	linkBaud     = 115200

	i2cCallTimeout = 250 * time.Millisecond
)

// ----------------------------- I2C (rp2040) ----------------------------------

// Exactly one worker owns the hardware bus; callers post transactions and
// wait for the reply. Keeps machine.I2C access off arbitrary goroutines.
type i2cReq struct {
	addr uint16
	w, r []byte
	done chan error // buffered(1); worker replies best-effort
}

type i2cOwner struct {
	hw   *machine.I2C
	reqs chan i2cReq
}

func newI2COwner(hw *machine.I2C) *i2cOwner {
	o := &i2cOwner{hw: hw, reqs: make(chan i2cReq, 16)}
	go o.loop()
	return o
}

func (o *i2cOwner) loop() {
	for req := range o.reqs {
		err := o.hw.Tx(req.addr, req.w, req.r)
		select {
		case req.done <- err:
		default:
		}
	}
}

// ownedI2C adapts the owner to tinygo.org/x/drivers.I2C with a per-call
// deadline so a wedged bus cannot hang the playback worker.
type ownedI2C struct {
	o       *i2cOwner
	timeout time.Duration
}

var _ drivers.I2C = (*ownedI2C)(nil)

func (d *ownedI2C) Tx(addr uint16, w, r []byte) error {
	req := i2cReq{addr: addr, w: w, r: r, done: make(chan error, 1)}

	t := time.NewTimer(d.timeout)
	select {
	case d.o.reqs <- req:
		if !t.Stop() {
			<-t.C
		}
	case <-t.C:
		return errcode.Busy
	}

	t = time.NewTimer(d.timeout)
	defer t.Stop()
	select {
	case err := <-req.done:
		return err
	case <-t.C:
		return errcode.Timeout
	}
}

var (
	i2cOnce sync.Once
	i2cBus  drivers.I2C
)

// DefaultI2C configures I2C0 for the motor driver and returns a serialized
// handle. Safe to call from multiple packages; the bus is set up once.
func DefaultI2C() drivers.I2C {
	i2cOnce.Do(func() {
		pinSDA.Configure(machine.PinConfig{Mode: machine.PinI2C})
		pinSCL.Configure(machine.PinConfig{Mode: machine.PinI2C})
		_ = machine.I2C0.Configure(machine.I2CConfig{
			SDA:       pinSDA,
			SCL:       pinSCL,
			Frequency: i2cFrequency,
		})
		i2cBus = &ownedI2C{o: newI2COwner(machine.I2C0), timeout: i2cCallTimeout}
	})
	return i2cBus
}

// ----------------------------- GPIO (rp2040) ---------------------------------

type rp2Pin struct {
	pin machine.Pin
}

func (p *rp2Pin) ConfigureInput(pull Pull) error {
	mode := machine.PinInput
	switch pull {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	}
	p.pin.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (p *rp2Pin) ConfigureOutput(initial bool) error {
	p.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.pin.Set(initial)
	return nil
}

func (p *rp2Pin) Set(level bool) { p.pin.Set(level) }
func (p *rp2Pin) Get() bool      { return p.pin.Get() }
func (p *rp2Pin) Toggle()        { p.pin.Set(!p.pin.Get()) }
func (p *rp2Pin) Number() int    { return int(p.pin) }

// DefaultPin returns the GPIO pin with the given number.
func DefaultPin(n int) GPIOPin { return &rp2Pin{pin: machine.Pin(n)} }

// ----------------------------- UART (rp2040) ---------------------------------

type rp2UART struct {
	u *uartx.UART
}

func (p *rp2UART) Write(b []byte) (int, error) { return p.u.Write(b) }
func (p *rp2UART) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	return p.u.RecvSomeContext(ctx, buf)
}
func (p *rp2UART) SetBaudRate(br uint32) { p.u.SetBaudRate(br) }

var (
	uart0Once sync.Once
	uart0Port *rp2UART
)

// DefaultUART returns the console port on UART0.
func DefaultUART() UARTPort {
	uart0Once.Do(func() {
		_ = uartx.UART0.Configure(uartx.UARTConfig{
			BaudRate: consoleBaud,
			TX:       pinUART0TX,
			RX:       pinUART0RX,
		})
		uart0Port = &rp2UART{u: uartx.UART0}
	})
	return uart0Port
}

// ----------------------------- Link (rp2040) ---------------------------------

// linkPort adapts UART1 to io.ReadWriteCloser for the command link. Close is
// a no-op: the peripheral stays configured across link restarts.
type linkPort struct {
	u *rp2UART
}

func (l *linkPort) Read(p []byte) (int, error) {
	return l.u.RecvSomeContext(context.Background(), p)
}
func (l *linkPort) Write(p []byte) (int, error) { return l.u.Write(p) }
func (l *linkPort) Close() error                { return nil }

var (
	uart1Once sync.Once
	uart1Port *rp2UART
)

// DefaultLinkDial opens the inbound command transport on UART1.
func DefaultLinkDial() LinkDial {
	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		uart1Once.Do(func() {
			_ = uartx.UART1.Configure(uartx.UARTConfig{
				BaudRate: linkBaud,
				TX:       pinUART1TX,
				RX:       pinUART1RX,
			})
			uart1Port = &rp2UART{u: uartx.UART1}
		})
		return &linkPort{u: uart1Port}, nil
	}
}
