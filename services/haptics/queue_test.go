package haptics

import (
	"context"
	"testing"
	"time"

	"github.com/Xavialess/Stride/errcode"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(4)
	for _, e := range []uint8{10, 20, 30} {
		if err := q.Enqueue(Request{Kind: KindSingleEffect, Effects: []uint8{e}}); err != nil {
			t.Fatalf("enqueue %d: %v", e, err)
		}
	}
	ctx := context.Background()
	for _, want := range []uint8{10, 20, 30} {
		req, ok := q.Dequeue(ctx)
		if !ok {
			t.Fatal("dequeue returned !ok")
		}
		if req.Effects[0] != want {
			t.Fatalf("dequeued %d want %d", req.Effects[0], want)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("len=%d want 0", q.Len())
	}
}

func TestQueueFullDrops(t *testing.T) {
	q := NewQueue(2)
	if err := q.Enqueue(Request{Kind: KindStop}); err != nil {
		t.Fatal(err)
	}
	if err := q.Enqueue(Request{Kind: KindStop}); err != nil {
		t.Fatal(err)
	}
	err := q.Enqueue(Request{Kind: KindStop})
	if err == nil {
		t.Fatal("want queue-full error")
	}
	if errcode.Of(err) != errcode.QueueFull {
		t.Fatalf("code=%v want QueueFull", errcode.Of(err))
	}
	// Earlier requests are untouched.
	if q.Len() != 2 {
		t.Fatalf("len=%d want 2", q.Len())
	}
}

func TestQueueDequeueCancel(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan bool, 1)
	go func() {
		_, ok := q.Dequeue(ctx)
		done <- ok
	}()

	cancel()
	select {
	case ok := <-done:
		if ok {
			t.Fatal("dequeue reported ok after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("dequeue did not unblock on cancel")
	}
}

func TestQueueDefaultDepth(t *testing.T) {
	q := NewQueue(0)
	for i := 0; i < DefaultQueueDepth; i++ {
		if err := q.Enqueue(Request{Kind: KindStop}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if err := q.Enqueue(Request{Kind: KindStop}); err == nil {
		t.Fatal("expected full at default depth")
	}
}
