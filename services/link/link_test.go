package link

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/Xavialess/Stride/bus"
	"github.com/Xavialess/Stride/platform"
	"github.com/Xavialess/Stride/types"
)

func startLink(t *testing.T) (*bus.Connection, *platform.PipeLink, context.CancelFunc) {
	t.Helper()
	b := bus.NewBus(16, "+", "#")
	pl := platform.NewPipeLink()
	ctx, cancel := context.WithCancel(context.Background())
	go Start(ctx, b.NewConnection("link"), pl.Dial)

	conn := b.NewConnection("test")
	cfg, _ := json.Marshal(types.LinkConfig{Transport: "uart"})
	conn.Publish(conn.NewMessage(bus.T("config", "link"), cfg, true))
	return conn, pl, cancel
}

func waitMsg(t *testing.T, sub *bus.Subscription) *bus.Message {
	t.Helper()
	select {
	case msg := <-sub.Channel():
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message before deadline")
		return nil
	}
}

func TestLinkRoutesCommandBytes(t *testing.T) {
	conn, pl, cancel := startLink(t)
	defer cancel()
	cmdSub := conn.Subscribe(bus.T("haptics", "command"))
	defer conn.Unsubscribe(cmdSub)

	// Wait for the service to come up before writing.
	stateSub := conn.Subscribe(bus.T("link", "state"))
	defer conn.Unsubscribe(stateSub)
	for {
		msg := waitMsg(t, stateSub)
		if m, ok := msg.Payload.(map[string]any); ok && m["level"] == "up" {
			break
		}
	}

	want := []byte{0x02, 3, 1, 1, 1}
	if _, err := pl.Peer().Write(want); err != nil {
		t.Fatalf("peer write: %v", err)
	}

	msg := waitMsg(t, cmdSub)
	got, ok := msg.Payload.([]byte)
	if !ok {
		t.Fatalf("payload type %T", msg.Payload)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("routed %v want %v", got, want)
	}
}

func TestLinkRoutesConsoleBytes(t *testing.T) {
	conn, pl, cancel := startLink(t)
	defer cancel()
	serSub := conn.Subscribe(bus.T("serial", "tx"))
	defer conn.Unsubscribe(serSub)
	cmdSub := conn.Subscribe(bus.T("haptics", "command"))
	defer conn.Unsubscribe(cmdSub)

	stateSub := conn.Subscribe(bus.T("link", "state"))
	defer conn.Unsubscribe(stateSub)
	for {
		msg := waitMsg(t, stateSub)
		if m, ok := msg.Payload.(map[string]any); ok && m["level"] == "up" {
			break
		}
	}

	if _, err := pl.Peer().Write([]byte("hello\r")); err != nil {
		t.Fatalf("peer write: %v", err)
	}
	msg := waitMsg(t, serSub)
	if got := msg.Payload.([]byte); !bytes.Equal(got, []byte("hello\r")) {
		t.Fatalf("console got %q", got)
	}
	select {
	case m := <-cmdSub.Channel():
		t.Fatalf("console bytes leaked to command topic: %v", m.Payload)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestLinkWritesOutbound(t *testing.T) {
	conn, pl, cancel := startLink(t)
	defer cancel()

	stateSub := conn.Subscribe(bus.T("link", "state"))
	defer conn.Unsubscribe(stateSub)
	for {
		msg := waitMsg(t, stateSub)
		if m, ok := msg.Payload.(map[string]any); ok && m["level"] == "up" {
			break
		}
	}

	conn.Publish(conn.NewMessage(bus.T("link", "tx"), []byte("pong"), false))

	buf := make([]byte, 16)
	n, err := pl.Peer().Read(buf)
	if err != nil {
		t.Fatalf("peer read: %v", err)
	}
	if !bytes.Equal(buf[:n], []byte("pong")) {
		t.Fatalf("peer read %q", buf[:n])
	}
}

func TestLinkReconnectsAfterLoss(t *testing.T) {
	b := bus.NewBus(16, "+", "#")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Dial hands out a fresh pipe each attempt.
	links := make(chan *platform.PipeLink, 4)
	dial := func(ctx context.Context) (io.ReadWriteCloser, error) {
		pl := platform.NewPipeLink()
		links <- pl
		return pl.Dial(ctx)
	}
	go Start(ctx, b.NewConnection("link"), dial)

	conn := b.NewConnection("test")
	cfg, _ := json.Marshal(types.LinkConfig{Transport: "uart", BackoffMinMs: 1, BackoffMaxMs: 5})
	conn.Publish(conn.NewMessage(bus.T("config", "link"), cfg, true))

	first := <-links
	// Kill the peer side; the service read errors and redials.
	_ = first.Peer().Close()

	select {
	case <-links:
		// Second dial happened: reconnect worked.
	case <-time.After(2 * time.Second):
		t.Fatal("no redial after link loss")
	}
}
