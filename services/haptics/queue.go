package haptics

import (
	"context"

	"github.com/Xavialess/Stride/errcode"
)

// DefaultQueueDepth bounds pending playback requests. The original firmware
// queued until allocation failed; here memory pressure surfaces as a full
// channel instead.
const DefaultQueueDepth = 16

// Queue is the FIFO handoff between decode-side producers and the single
// playback worker. Multiple producers may enqueue concurrently; exactly one
// consumer dequeues. Delivery is at-most-once, in enqueue order.
type Queue struct {
	ch chan Request
}

func NewQueue(depth int) *Queue {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Queue{ch: make(chan Request, depth)}
}

// Enqueue never blocks. On a full queue the request is dropped and a
// queue-full error returned; the caller logs and moves on, never retries.
func (q *Queue) Enqueue(r Request) error {
	select {
	case q.ch <- r:
		return nil
	default:
		return &errcode.E{C: errcode.QueueFull, Op: "haptics.enqueue", Msg: r.Kind.String()}
	}
}

// Dequeue blocks until a request is available or ctx is cancelled. The
// second result is false only on cancellation; production code never
// cancels, the shutdown path exists for clean test teardown.
func (q *Queue) Dequeue(ctx context.Context) (Request, bool) {
	select {
	case r := <-q.ch:
		return r, true
	case <-ctx.Done():
		return Request{}, false
	}
}

// Len reports the number of pending requests.
func (q *Queue) Len() int { return len(q.ch) }
