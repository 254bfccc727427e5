// Package serial forwards console traffic between the bus and a UART port.
// Outbound payloads on {"serial","tx"} are written verbatim, with a newline
// appended when the payload ends in a carriage return; inbound bytes are
// framed (size or idle bounded) and published on
// {"serial","rx"}.
package serial

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/Xavialess/Stride/bus"
	"github.com/Xavialess/Stride/platform"
	"github.com/Xavialess/Stride/types"
	"github.com/Xavialess/Stride/x/mathx"
	"github.com/Xavialess/Stride/x/timex"
)

var (
	topicTx     = bus.Topic{"serial", "tx"}
	topicRx     = bus.Topic{"serial", "rx"}
	topicConfig = bus.Topic{"config", "serial"}
)

const (
	defaultMaxFrame  = 128
	defaultIdleFlush = 100 * time.Millisecond
	recvSlice        = 250 * time.Millisecond
)

type Service struct {
	conn *bus.Connection
	port platform.UARTPort

	maxFrame    atomic.Int32
	idleFlushMs atomic.Int32
}

func New(port platform.UARTPort) *Service {
	s := &Service{port: port}
	s.maxFrame.Store(defaultMaxFrame)
	s.idleFlushMs.Store(int32(defaultIdleFlush / time.Millisecond))
	return s
}

// Start launches the TX and RX goroutines. It does not block.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	s.conn = conn
	go s.txLoop(ctx)
	go s.rxLoop(ctx)
}

func (s *Service) txLoop(ctx context.Context) {
	txSub := s.conn.Subscribe(topicTx)
	defer s.conn.Unsubscribe(txSub)
	cfgSub := s.conn.Subscribe(topicConfig)
	defer s.conn.Unsubscribe(cfgSub)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-txSub.Channel():
			if !ok {
				return
			}
			var data []byte
			switch p := msg.Payload.(type) {
			case []byte:
				data = p
			case string:
				data = []byte(p)
			default:
				continue
			}
			s.write(data)
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			s.applyConfig(msg.Payload)
		}
	}
}

// write sends data with console newline completion: a payload ending in a
// bare CR gets an LF appended so terminals advance the line.
func (s *Service) write(data []byte) {
	if len(data) == 0 {
		return
	}
	if _, err := s.port.Write(data); err != nil {
		println("[serial] write failed:", err.Error())
		return
	}
	if data[len(data)-1] == '\r' {
		if _, err := s.port.Write([]byte{'\n'}); err != nil {
			println("[serial] write failed:", err.Error())
		}
	}
}

func (s *Service) applyConfig(payload any) {
	var cfg types.SerialConfig
	if err := decodeJSON(payload, &cfg); err != nil {
		println("[serial] config decode failed:", err.Error())
		return
	}
	if cfg.Baud > 0 {
		s.port.SetBaudRate(uint32(cfg.Baud))
		println("[serial] baud set to", cfg.Baud)
	}
	if cfg.MaxFrame > 0 {
		s.maxFrame.Store(int32(mathx.Clamp(cfg.MaxFrame, 16, 256)))
	}
	if cfg.IdleFlushMs > 0 {
		s.idleFlushMs.Store(int32(mathx.Clamp(cfg.IdleFlushMs, 1, 2000)))
	}
}

// rxLoop accumulates received bytes into frames. A frame is published when
// it reaches maxFrame or when the line goes idle with data pending.
func (s *Service) rxLoop(ctx context.Context) {
	buf := make([]byte, 64)
	var frame []byte

	flush := func() {
		if len(frame) == 0 {
			return
		}
		payload := map[string]any{
			"data":  append([]byte(nil), frame...),
			"ts_ms": timex.NowMs(),
		}
		frame = frame[:0]
		s.conn.Publish(s.conn.NewMessage(topicRx, payload, false))
	}

	for {
		wait := recvSlice
		if len(frame) > 0 {
			wait = time.Duration(s.idleFlushMs.Load()) * time.Millisecond
		}
		rctx, rcancel := context.WithTimeout(ctx, wait)
		n, err := s.port.RecvSomeContext(rctx, buf)
		rcancel()

		if ctx.Err() != nil {
			flush()
			return
		}
		if n <= 0 {
			if err != nil {
				// Idle timeout with data pending: ship the frame.
				flush()
			}
			continue
		}
		max := int(s.maxFrame.Load())
		for i := 0; i < n; i++ {
			frame = append(frame, buf[i])
			if len(frame) >= max {
				flush()
			}
		}
	}
}

func decodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}
