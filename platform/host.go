//go:build !rp2040

package platform

import (
	"context"
	"io"
	"sync"

	"tinygo.org/x/drivers"
)

// ----------------------------- I²C (host) ------------------------------------

// RegWrite is one recorded single-byte register write.
type RegWrite struct {
	Addr uint16
	Reg  byte
	Val  byte
}

// SimI2C implements drivers.I2C over a scripted register map. Writes of the
// form [reg, value] update the map and are logged; reads of the form
// [reg] -> 1 byte come from the map. Safe for concurrent use.
type SimI2C struct {
	mu     sync.Mutex
	regs   map[uint16]map[byte]byte
	writes []RegWrite

	// TxErr, when set, fails every transaction (simulated bus fault).
	TxErr error
}

func NewSimI2C() *SimI2C {
	return &SimI2C{regs: make(map[uint16]map[byte]byte)}
}

// Seed presets a device register without logging a write.
func (s *SimI2C) Seed(addr uint16, reg, val byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dev(addr)[reg] = val
}

func (s *SimI2C) dev(addr uint16) map[byte]byte {
	m, ok := s.regs[addr]
	if !ok {
		m = make(map[byte]byte)
		s.regs[addr] = m
	}
	return m
}

func (s *SimI2C) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.TxErr != nil {
		return s.TxErr
	}
	m := s.dev(addr)
	switch {
	case len(w) == 2 && len(r) == 0:
		m[w[0]] = w[1]
		s.writes = append(s.writes, RegWrite{Addr: addr, Reg: w[0], Val: w[1]})
	case len(w) == 1 && len(r) == 1:
		r[0] = m[w[0]]
	default:
		for i := range r {
			r[i] = 0
		}
	}
	return nil
}

// Writes returns a snapshot of the recorded register writes.
func (s *SimI2C) Writes() []RegWrite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RegWrite(nil), s.writes...)
}

// ClearWrites drops the write log (register contents are kept).
func (s *SimI2C) ClearWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
}

// Reg returns the current value of one device register.
func (s *SimI2C) Reg(addr uint16, reg byte) byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev(addr)[reg]
}

// DefaultI2C returns the simulated bus on host builds.
func DefaultI2C() drivers.I2C { return NewSimI2C() }

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements GPIOPin for host-side tests.
type FakePin struct {
	mu      sync.Mutex
	number  int
	level   bool
	modeOut bool
	toggles int
}

func (p *FakePin) ConfigureInput(_ Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *FakePin) Toggle() {
	p.mu.Lock()
	p.level = !p.level
	p.toggles++
	p.mu.Unlock()
}

func (p *FakePin) Number() int { return p.number }

// Toggles reports how many times Toggle has been called.
func (p *FakePin) Toggles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.toggles
}

var hostPins struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

// DefaultPin returns a stable *FakePin per number on host builds.
func DefaultPin(n int) GPIOPin {
	hostPins.mu.Lock()
	defer hostPins.mu.Unlock()
	if hostPins.pins == nil {
		hostPins.pins = make(map[int]*FakePin)
	}
	p, ok := hostPins.pins[n]
	if !ok {
		p = &FakePin{number: n}
		hostPins.pins[n] = p
	}
	return p
}

// ----------------------------- UART (host) -----------------------------------

// LoopbackUART implements UARTPort in memory. Written bytes accumulate in a
// TX log; test code feeds the RX side with FeedRX.
type LoopbackUART struct {
	mu       sync.Mutex
	tx       []byte
	rx       []byte
	readable chan struct{}
}

func NewLoopbackUART() *LoopbackUART {
	return &LoopbackUART{readable: make(chan struct{}, 1)}
}

func (u *LoopbackUART) Write(p []byte) (int, error) {
	u.mu.Lock()
	u.tx = append(u.tx, p...)
	u.mu.Unlock()
	return len(p), nil
}

// TX returns a snapshot of everything written so far.
func (u *LoopbackUART) TX() []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]byte(nil), u.tx...)
}

// FeedRX injects bytes into the receive buffer and signals readability.
func (u *LoopbackUART) FeedRX(p []byte) {
	u.mu.Lock()
	u.rx = append(u.rx, p...)
	u.mu.Unlock()
	select {
	case u.readable <- struct{}{}:
	default:
	}
}

func (u *LoopbackUART) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	for {
		u.mu.Lock()
		n := copy(p, u.rx)
		u.rx = u.rx[n:]
		u.mu.Unlock()
		if n > 0 {
			return n, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-u.readable:
		}
	}
}

func (u *LoopbackUART) SetBaudRate(br uint32) {}

// DefaultUART returns an in-memory loopback port on host builds.
func DefaultUART() UARTPort { return NewLoopbackUART() }

// ----------------------------- Link (host) -----------------------------------

// PipeLink is the host stand-in for the command link: one end goes to the
// link service, the peer end stays with the caller (test or demo driver).
type PipeLink struct {
	mu   sync.Mutex
	svc  io.ReadWriteCloser
	peer io.ReadWriteCloser
}

type pipeEnd struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p *pipeEnd) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipeEnd) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *pipeEnd) Close() error {
	_ = p.r.Close()
	return p.w.Close()
}

// NewPipeLink builds a connected in-memory link. Dial hands the service its
// end; Peer returns the other for driving the test.
func NewPipeLink() *PipeLink {
	ar, bw := io.Pipe()
	br, aw := io.Pipe()
	pl := &PipeLink{}
	pl.svc = &pipeEnd{r: ar, w: aw}
	pl.peer = &pipeEnd{r: br, w: bw}
	return pl
}

func (p *PipeLink) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.svc, nil
}

// Peer returns the test-side end of the link.
func (p *PipeLink) Peer() io.ReadWriteCloser {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peer
}

// DefaultLinkDial returns a dial into a fresh pipe link whose peer is
// discarded; host mains run without a real peer.
func DefaultLinkDial() LinkDial {
	pl := NewPipeLink()
	return pl.Dial
}
