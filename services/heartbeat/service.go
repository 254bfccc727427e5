// Package heartbeat blinks the board LED and publishes a retained liveness
// record. A stalled firmware shows up as both a frozen LED and a stale
// uptime on the state topic.
package heartbeat

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/Xavialess/Stride/bus"
	"github.com/Xavialess/Stride/platform"
	"github.com/Xavialess/Stride/types"
	"github.com/Xavialess/Stride/x/conv"
	"github.com/Xavialess/Stride/x/mathx"
	"github.com/Xavialess/Stride/x/timex"
)

var (
	topicConfig = bus.Topic{"config", "heartbeat"}
	topicState  = bus.Topic{"heartbeat", "state"}
)

const defaultInterval = 1 * time.Second

type Service struct {
	led platform.GPIOPin

	intervalS atomic.Int32
}

func New(led platform.GPIOPin) *Service {
	return &Service{led: led}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if s.led != nil {
		if err := s.led.ConfigureOutput(false); err != nil {
			return err
		}
	}
	go s.serviceLoop(ctx, conn)
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfig)
	defer conn.Unsubscribe(cfgSub)

	interval := defaultInterval
	s.intervalS.Store(int32(interval / time.Second))
	tick := time.NewTicker(interval)
	defer tick.Stop()

	var beats uint64
	started := time.Now()
	var scratch [20]byte

	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			if s.led != nil {
				s.led.Set(false)
			}
			return
		case <-tick.C:
			beats++
			if s.led != nil {
				s.led.Toggle()
			}
			uptime := uint64(time.Since(started) / time.Second)
			conn.Publish(conn.NewMessage(topicState, map[string]any{
				"beats":    beats,
				"uptime_s": uptime,
				"ts_ms":    timex.NowMs(),
			}, true))
			println("[heartbeat] beat", string(conv.Utoa(scratch[:], beats)))
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			var cfg types.HeartbeatConfig
			if err := decodeJSON(msg.Payload, &cfg); err != nil {
				println("[heartbeat] config decode failed:", err.Error())
				continue
			}
			if cfg.IntervalS > 0 {
				secs := mathx.Clamp(cfg.IntervalS, 1, 3600)
				interval = time.Duration(secs) * time.Second
				s.intervalS.Store(int32(secs))
				tick.Reset(interval)
				println("[heartbeat] interval set to", secs, "s")
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
