// config/config_test.go
package config

import (
	"context"
	"testing"
	"time"

	"github.com/Xavialess/Stride/bus"
)

func TestConfig_PublishEmbedded_RetainedPerKey(t *testing.T) {
	// Override lookup for this test.
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "pico" {
			return nil, false
		}
		return []byte(`{
			"mode": "dev",
			"debug": true,
			"haptics": {"motor": "lra"}
		}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	// Arrange bus and service.
	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	// Start publisher with device ID in context.
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	svc.Start(ctx, conn)

	type gotMsg struct {
		key string
		val any
	}

	// Subscribe; retained messages should arrive immediately.
	sub := conn.Subscribe(bus.Topic{configPrefix, "#"})

	wantCount := 3 // mode, debug, haptics
	got := map[string]gotMsg{}

	deadline := time.Now().Add(600 * time.Millisecond)
	for len(got) < wantCount && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if len(m.Topic) < 2 {
				t.Fatalf("unexpected topic length: %#v", m.Topic)
			}
			prefix, ok := m.Topic[0].(string)
			if !ok {
				t.Fatalf("topic[0] type %T, want string", m.Topic[0])
			}
			if prefix != configPrefix {
				t.Fatalf("unexpected prefix: %q", prefix)
			}
			key, ok := m.Topic[1].(string)
			if !ok {
				t.Fatalf("topic[1] type %T, want string", m.Topic[1])
			}
			got[key] = gotMsg{key: key, val: m.Payload}
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(got) != wantCount {
		t.Fatalf("expected %d retained messages, got %d (%v)", wantCount, len(got), got)
	}

	// mode
	if v, ok := got["mode"]; !ok {
		t.Fatal("missing 'mode' message")
	} else if s, ok := v.val.(string); !ok || s != "dev" {
		t.Fatalf("mode payload = %#v, want \"dev\"", v.val)
	}
	// debug
	if v, ok := got["debug"]; !ok {
		t.Fatal("missing 'debug' message")
	} else if bval, ok := v.val.(bool); !ok || bval != true {
		t.Fatalf("debug payload = %#v, want true", v.val)
	}
	// haptics section stays a JSON object for the subscriber to decode.
	if v, ok := got["haptics"]; !ok {
		t.Fatal("missing 'haptics' message")
	} else if m, ok := v.val.(map[string]any); !ok {
		t.Fatalf("haptics payload type = %T, want map[string]any", v.val)
	} else if motor, ok := m["motor"].(string); !ok || motor != "lra" {
		t.Fatalf("haptics.motor = %#v, want \"lra\"", m["motor"])
	}
}

func TestConfig_PublishConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-missing-device")
	svc := NewConfigService()

	// No device ID in context
	if err := svc.publishConfig(context.Background(), conn); err == nil {
		t.Fatal("expected error for missing device ID, got nil")
	}
}

func TestConfig_PublishConfig_NoConfigFound(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) { return nil, false }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(4)
	conn := b.NewConnection("test-no-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := svc.publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for missing embedded config, got nil")
	}
}

func TestConfig_EmbeddedPicoSectionsValid(t *testing.T) {
	raw, ok := EmbeddedConfigLookup("pico")
	if !ok {
		t.Fatal("pico config missing")
	}
	b := bus.NewBus(16)
	conn := b.NewConnection("test-pico")
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(string) ([]byte, bool) { return raw, true }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	svc := NewConfigService()
	if err := svc.publishConfig(ctx, conn); err != nil {
		t.Fatalf("publish: %v", err)
	}

	// Every service section the firmware starts must be present.
	for _, section := range []string{"haptics", "link", "serial", "heartbeat"} {
		sub := conn.Subscribe(bus.Topic{configPrefix, section})
		select {
		case m := <-sub.Channel():
			if _, ok := m.Payload.(map[string]any); !ok {
				t.Fatalf("%s payload type %T", section, m.Payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("no retained %s config", section)
		}
		conn.Unsubscribe(sub)
	}
}
