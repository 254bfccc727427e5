package serial

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Xavialess/Stride/bus"
	"github.com/Xavialess/Stride/platform"
)

func startSerial(t *testing.T) (*Service, *bus.Connection, *platform.LoopbackUART, context.CancelFunc) {
	t.Helper()
	b := bus.NewBus(16, "+", "#")
	u := platform.NewLoopbackUART()
	ctx, cancel := context.WithCancel(context.Background())
	s := New(u)
	s.Start(ctx, b.NewConnection("serial"))
	return s, b.NewConnection("test"), u, cancel
}

func TestSerialWritesOutbound(t *testing.T) {
	_, conn, u, cancel := startSerial(t)
	defer cancel()

	conn.Publish(conn.NewMessage(bus.T("serial", "tx"), []byte("ok"), false))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if bytes.Equal(u.TX(), []byte("ok")) {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("tx=%q want %q", u.TX(), "ok")
}

func TestSerialTrailingCRGetsLF(t *testing.T) {
	_, conn, u, cancel := startSerial(t)
	defer cancel()

	// A trailing CR is completed with exactly one LF; an inner CR is not.
	conn.Publish(conn.NewMessage(bus.T("serial", "tx"), "a\rb\r", false))

	want := []byte("a\rb\r\n")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if bytes.Equal(u.TX(), want) {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("tx=%q want %q", u.TX(), want)
}

func TestSerialPublishesInbound(t *testing.T) {
	_, conn, u, cancel := startSerial(t)
	defer cancel()

	rxSub := conn.Subscribe(bus.T("serial", "rx"))
	defer conn.Unsubscribe(rxSub)

	u.FeedRX([]byte("ping"))

	select {
	case msg := <-rxSub.Channel():
		m, ok := msg.Payload.(map[string]any)
		if !ok {
			t.Fatalf("payload type %T", msg.Payload)
		}
		if !bytes.Equal(m["data"].([]byte), []byte("ping")) {
			t.Fatalf("data=%q", m["data"])
		}
		if _, ok := m["ts_ms"]; !ok {
			t.Fatal("ts_ms missing")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no rx frame published")
	}
}

func TestSerialFramesLargeInbound(t *testing.T) {
	s, conn, u, cancel := startSerial(t)
	defer cancel()
	s.maxFrame.Store(16)

	rxSub := conn.Subscribe(bus.T("serial", "rx"))
	defer conn.Unsubscribe(rxSub)

	big := bytes.Repeat([]byte{0x55}, 40)
	u.FeedRX(big)

	var got []byte
	deadline := time.After(2 * time.Second)
	for len(got) < len(big) {
		select {
		case msg := <-rxSub.Channel():
			m := msg.Payload.(map[string]any)
			got = append(got, m["data"].([]byte)...)
		case <-deadline:
			t.Fatalf("received %d of %d bytes", len(got), len(big))
		}
	}
	if !bytes.Equal(got, big) {
		t.Fatal("reassembled frames differ from input")
	}
}
