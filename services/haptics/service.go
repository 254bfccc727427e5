// Package haptics decodes raw command buffers into playback requests and
// drives the motor driver from a single worker goroutine. The decoder runs
// on the bus-delivery goroutine and never blocks; the worker serializes all
// driver I/O and paces register writes.
package haptics

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Xavialess/Stride/bus"
	"github.com/Xavialess/Stride/types"
	"github.com/Xavialess/Stride/x/mathx"
	"github.com/Xavialess/Stride/x/timex"
)

var (
	topicCommand = bus.Topic{"haptics", "command"}
	topicConfig  = bus.Topic{"config", "haptics"}
	topicState   = bus.Topic{"haptics", "state"}
)

// DefaultPacing is the delay between dispatched requests, honoured
// regardless of outcome so register writes never outrun the IC's
// command-ack latency.
const DefaultPacing = 10 * time.Millisecond

// Driver is the playback surface the worker needs. *drv2605l.Device
// satisfies it; tests substitute a fake.
type Driver interface {
	PlayEffect(effect uint8) error
	PlaySequence(effects []uint8) error
	Stop() error
}

type Service struct {
	conn  *bus.Connection
	drv   Driver
	queue *Queue

	pacingMs  atomic.Int32
	ready     chan struct{}
	readyOnce sync.Once
}

// New creates the service around a configured driver handle. queueDepth
// bounds pending playback requests; zero or negative selects
// DefaultQueueDepth. The driver readiness gate starts closed; call
// SignalReady once driver bring-up succeeded.
func New(drv Driver, queueDepth int) *Service {
	s := &Service{
		drv:   drv,
		queue: NewQueue(queueDepth),
		ready: make(chan struct{}),
	}
	s.pacingMs.Store(int32(DefaultPacing / time.Millisecond))
	return s
}

// Queue exposes the request queue, mainly for tests and diagnostics.
func (s *Service) Queue() *Queue { return s.queue }

// SignalReady opens the one-time gate the playback worker waits on.
func (s *Service) SignalReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Start launches the decode and playback goroutines. It does not block.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	s.conn = conn
	s.publishState("idle", "awaiting_driver", nil)
	go s.decodeLoop(ctx)
	go s.workerLoop(ctx)
}

// Submit decodes one raw command buffer and enqueues the result. It is the
// entry point for both bus-delivered and directly injected buffers. Decode
// failures are logged and the buffer discarded; they are never retried.
func (s *Service) Submit(buf []byte) error {
	req, err := Decode(buf)
	if err != nil {
		println("[haptics] decode failed:", err.Error())
		return err
	}
	if err := s.queue.Enqueue(req); err != nil {
		println("[haptics] queue full, dropping", req.Kind.String())
		return err
	}
	return nil
}

func (s *Service) decodeLoop(ctx context.Context) {
	cmdSub := s.conn.Subscribe(topicCommand)
	defer s.conn.Unsubscribe(cmdSub)
	cfgSub := s.conn.Subscribe(topicConfig)
	defer s.conn.Unsubscribe(cfgSub)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-cmdSub.Channel():
			if !ok {
				return
			}
			switch p := msg.Payload.(type) {
			case []byte:
				_ = s.Submit(p)
			case string:
				_ = s.Submit([]byte(p))
			default:
				println("[haptics] ignoring non-byte command payload")
			}
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			s.applyConfig(msg.Payload)
		}
	}
}

func (s *Service) applyConfig(payload any) {
	var cfg types.HapticsConfig
	if err := decodeJSON(payload, &cfg); err != nil {
		println("[haptics] config decode failed:", err.Error())
		return
	}
	if cfg.PacingMs > 0 {
		ms := mathx.Clamp(cfg.PacingMs, 1, 1000)
		s.pacingMs.Store(int32(ms))
		println("[haptics] pacing set to", ms, "ms")
	}
}

func (s *Service) workerLoop(ctx context.Context) {
	// One-time driver readiness gate.
	select {
	case <-ctx.Done():
		return
	case <-s.ready:
	}
	s.publishState("up", "driver_ready", nil)

	for {
		req, ok := s.queue.Dequeue(ctx)
		if !ok {
			s.publishState("stopped", "context_cancelled", nil)
			return
		}
		s.dispatch(req)
		// Fixed pacing regardless of outcome.
		if !sleep(ctx, time.Duration(s.pacingMs.Load())*time.Millisecond) {
			s.publishState("stopped", "context_cancelled", nil)
			return
		}
	}
}

// dispatch performs one driver call. Driver errors are logged and the loop
// continues; a failed request means the motor skipped a beat, nothing more.
func (s *Service) dispatch(req Request) {
	switch req.Kind {
	case KindSingleEffect:
		if len(req.Effects) < 1 {
			println("[haptics] single-effect request without effect, skipping")
			return
		}
		if err := s.drv.PlayEffect(req.Effects[0]); err != nil {
			println("[haptics] play effect failed:", err.Error())
		}
	case KindSequence:
		if len(req.Effects) == 0 {
			println("[haptics] empty sequence, skipping")
			return
		}
		if err := s.drv.PlaySequence(req.Effects); err != nil {
			println("[haptics] play sequence failed:", err.Error())
		}
	case KindStop:
		if err := s.drv.Stop(); err != nil {
			// Treated as a bus-level disconnect indicator, not a shutdown.
			println("[haptics] stop failed:", err.Error())
			s.publishState("degraded", "driver_io_failed", err)
		}
	case KindCustom:
		println("[haptics] custom patterns not implemented")
	default:
		println("[haptics] unknown request kind")
	}
}

func (s *Service) publishState(level, status string, err error) {
	if s.conn == nil {
		return
	}
	payload := map[string]any{"level": level, "status": status, "ts_ms": timex.NowMs()}
	if err != nil {
		payload["error"] = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(topicState, payload, true))
}

func decodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		// Accept maps, structs, numbers… by marshaling then decoding to T.
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
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
