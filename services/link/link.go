// Package link owns the byte transport that carries inbound command buffers
// from the host. Chunks whose first byte is a command selector are routed to
// the haptics service; anything else is treated as console traffic. The link
// is supervised: dial failures and read errors trigger reconnects with
// exponential backoff.
package link

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Xavialess/Stride/bus"
	"github.com/Xavialess/Stride/platform"
	"github.com/Xavialess/Stride/types"
)

var (
	topicConfig  = bus.Topic{"config", "link"}
	topicState   = bus.Topic{"link", "state"}
	topicCommand = bus.Topic{"haptics", "command"}
	topicConsole = bus.Topic{"serial", "tx"}
	topicTx      = bus.Topic{"link", "tx"}
)

// Command selectors claimed by the haptic protocol. A chunk starting with
// any other byte is forwarded to the console instead.
const (
	selectorFirst = 0x01
	selectorLast  = 0x04
)

const readChunk = 64

// Start runs the link service. It blocks until ctx is cancelled. The dial
// function comes from the platform package; host builds inject an in-memory
// pipe, rp2040 builds a UART.
func Start(ctx context.Context, conn *bus.Connection, dial platform.LinkDial) {
	s := &Service{conn: conn, dial: dial}
	s.run(ctx)
}

type Service struct {
	conn *bus.Connection
	dial platform.LinkDial

	mu     sync.Mutex
	curRun context.CancelFunc
}

// run waits for config and supervises a single link instance.
func (s *Service) run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	defer s.conn.Unsubscribe(cfgSub)

	s.publishState("idle", "awaiting_config", nil)

	for {
		select {
		case <-ctx.Done():
			s.stopCurrent()
			return
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				s.publishState("error", "config_subscription_closed", nil)
				return
			}
			cfg, err := decodeConfig(msg.Payload)
			if err != nil {
				s.publishState("error", "config_decode_failed", err)
				continue
			}
			s.reconfigure(ctx, cfg)
		}
	}
}

func (s *Service) stopCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curRun != nil {
		s.curRun()
		s.curRun = nil
	}
}

func (s *Service) reconfigure(parent context.Context, cfg types.LinkConfig) {
	s.mu.Lock()
	if s.curRun != nil {
		s.curRun()
		s.curRun = nil
	}
	ctx, cancel := context.WithCancel(parent)
	s.curRun = cancel
	s.mu.Unlock()

	go s.runLink(ctx, cfg)
}

func (s *Service) runLink(ctx context.Context, cfg types.LinkConfig) {
	tr, err := newTransport(cfg, s.dial)
	if err != nil {
		s.publishState("error", "transport_init_failed", err)
		return
	}

	min := time.Duration(cfg.BackoffMinMs) * time.Millisecond
	max := time.Duration(cfg.BackoffMaxMs) * time.Millisecond
	if min <= 0 {
		min = 250 * time.Millisecond
	}
	if max <= 0 {
		max = 5 * time.Second
	}
	backoff := backoffSeq(min, max)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		rwc, err := tr.Open(ctx)
		if err != nil {
			delay := backoff()
			s.publishState("degraded", "dial_failed_retrying", fmt.Errorf("%v (retry in %s)", err, delay))
			if !sleep(ctx, delay) {
				return
			}
			continue
		}

		backoff = backoffSeq(min, max)
		s.publishState("up", "link_established", nil)
		if err := s.handleLink(ctx, rwc); err != nil {
			_ = rwc.Close()
			delay := backoff()
			s.publishState("degraded", "link_lost_retrying", fmt.Errorf("%v (retry in %s)", err, delay))
			if !sleep(ctx, delay) {
				return
			}
			continue
		}
		// Clean close on cancellation.
		_ = rwc.Close()
		return
	}
}

// handleLink owns the active link lifetime: one reader goroutine routing
// inbound chunks, one select loop writing outbound payloads.
func (s *Service) handleLink(ctx context.Context, rwc io.ReadWriteCloser) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		buf := make([]byte, readChunk)
		for {
			n, err := rwc.Read(buf)
			if n > 0 {
				s.route(buf[:n])
			}
			if err != nil {
				errCh <- err
				return
			}
		}
	}()

	txSub := s.conn.Subscribe(topicTx)
	defer s.conn.Unsubscribe(txSub)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err != nil {
				return err
			}
			return errors.New("link reader stopped")
		case msg, ok := <-txSub.Channel():
			if !ok {
				return nil
			}
			var out []byte
			switch p := msg.Payload.(type) {
			case []byte:
				out = p
			case string:
				out = []byte(p)
			default:
				continue
			}
			if _, err := rwc.Write(out); err != nil {
				return err
			}
		}
	}
}

// route forwards one inbound chunk. The payload is copied: the read buffer
// is reused immediately.
func (s *Service) route(chunk []byte) {
	cp := append([]byte(nil), chunk...)
	if cp[0] >= selectorFirst && cp[0] <= selectorLast {
		s.conn.Publish(s.conn.NewMessage(topicCommand, cp, false))
		return
	}
	s.conn.Publish(s.conn.NewMessage(topicConsole, cp, false))
}

// -----------------------------------------------------------------------------
// Transport registry
// -----------------------------------------------------------------------------

// Transport is a pluggable link dialler.
type Transport interface {
	Open(ctx context.Context) (io.ReadWriteCloser, error)
	String() string
}

type transportFactory func(types.LinkConfig, platform.LinkDial) (Transport, error)

var (
	regMu    sync.RWMutex
	registry = map[string]transportFactory{}
)

// RegisterTransport allows external packages to add transports (eg. "tcp").
func RegisterTransport(name string, f transportFactory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = f
}

func newTransport(cfg types.LinkConfig, dial platform.LinkDial) (Transport, error) {
	regMu.RLock()
	f, ok := registry[cfg.Transport]
	regMu.RUnlock()
	if ok {
		return f(cfg, dial)
	}
	switch cfg.Transport {
	case "", "uart":
		if dial == nil {
			return nil, errors.New("no link dial injected")
		}
		return &uartTransport{dial: dial}, nil
	default:
		return nil, fmt.Errorf("unknown transport type: %q", cfg.Transport)
	}
}

type uartTransport struct {
	dial platform.LinkDial
}

func (u *uartTransport) Open(ctx context.Context) (io.ReadWriteCloser, error) {
	return u.dial(ctx)
}

func (u *uartTransport) String() string { return "uart" }

// -----------------------------------------------------------------------------
// Utilities
// -----------------------------------------------------------------------------

func decodeConfig(p any) (types.LinkConfig, error) {
	var cfg types.LinkConfig
	switch v := p.(type) {
	case []byte:
		if err := json.Unmarshal(v, &cfg); err != nil {
			return cfg, err
		}
	case string:
		if err := json.Unmarshal([]byte(v), &cfg); err != nil {
			return cfg, err
		}
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return cfg, err
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config payload type: %T", p)
	}
	return cfg, nil
}

func (s *Service) publishState(level, status string, err error) {
	payload := map[string]any{
		"level":  level,  // "up", "degraded", "error", "idle"
		"status": status, // short machine string
		"ts_ms":  time.Now().UnixMilli(),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(topicState, payload, true))
}

func backoffSeq(min, max time.Duration) func() time.Duration {
	if min <= 0 {
		min = 100 * time.Millisecond
	}
	if max < min {
		max = min
	}
	var cur = min
	return func() time.Duration {
		d := cur
		cur *= 2
		if cur > max {
			cur = max
		}
		return d
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
