// bus.go
package bus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// -----------------------------------------------------------------------------
// Tokens + Topics
// -----------------------------------------------------------------------------

// Token is a single element in a topic path. Tokens must be comparable
// scalars (string, bool, integers, floats); T enforces this at construction.
type Token = any

// Topic is a sequence of tokens, e.g. Topic{"haptics", "command"}.
type Topic []Token

func (t Topic) Len() int       { return len(t) }
func (t Topic) At(i int) Token { return t[i] }

// T builds a Topic from tokens. It panics on token kinds that cannot be used
// as trie keys, so malformed topics fail loudly at the call site.
func T(tokens ...Token) Topic {
	for _, tok := range tokens {
		switch tok.(type) {
		case string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
		default:
			panic("bus: topic token must be a comparable scalar")
		}
	}
	return Topic(tokens)
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
	ReplyTo  Topic
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	topic Topic
	ch    chan *Message
	bus   *Bus
	conn  *Connection // owning connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// -----------------------------------------------------------------------------
// Trie node
// -----------------------------------------------------------------------------

// One trie holds both subscriptions (stored at their pattern path, wildcard
// tokens as literal keys) and retained messages (stored at concrete paths).
type node struct {
	children map[Token]*node
	subs     []*Subscription
	retained *Message
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu   sync.RWMutex
	root *node
	qLen int

	plus Token // single-level wildcard
	hash Token // multi-level wildcard, last token only

	reqSeq atomic.Uint32
}

// NewBus creates a bus with the given per-subscription queue length.
// The optional trailing tokens override the single- and multi-level wildcard
// tokens (defaults "+" and "#").
func NewBus(queueLen int, wildcards ...Token) *Bus {
	if queueLen <= 0 {
		queueLen = 8 // safe default
	}
	b := &Bus{
		root: &node{},
		qLen: queueLen,
		plus: "+",
		hash: "#",
	}
	if len(wildcards) > 0 {
		b.plus = wildcards[0]
	}
	if len(wildcards) > 1 {
		b.hash = wildcards[1]
	}
	return b
}

// NewMessage builds a message for this bus.
func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: topic, Payload: payload, Retained: retained}
}

// addSubscription inserts a subscription at its pattern path and delivers any
// retained messages whose concrete topics match the pattern.
func (b *Bus) addSubscription(topic Topic, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	for _, tok := range topic {
		if n.children == nil {
			n.children = make(map[Token]*node)
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	n.subs = append(n.subs, sub)

	b.deliverRetained(b.root, topic, sub)
}

// deliverRetained walks concrete retained paths against a pattern.
func (b *Bus) deliverRetained(n *node, pattern Topic, sub *Subscription) {
	if len(pattern) == 0 {
		if n.retained != nil {
			select {
			case sub.ch <- n.retained:
			default:
			}
		}
		return
	}
	tok := pattern[0]
	switch tok {
	case b.hash:
		// Zero or more remaining levels: the whole subtree, this node included.
		b.deliverRetainedSubtree(n, sub)
	case b.plus:
		for _, child := range n.children {
			b.deliverRetained(child, pattern[1:], sub)
		}
	default:
		if child, ok := n.children[tok]; ok {
			b.deliverRetained(child, pattern[1:], sub)
		}
	}
}

func (b *Bus) deliverRetainedSubtree(n *node, sub *Subscription) {
	if n.retained != nil {
		select {
		case sub.ch <- n.retained:
		default:
		}
	}
	for _, child := range n.children {
		b.deliverRetainedSubtree(child, sub)
	}
}

// Publish delivers a message to every matching subscription and updates the
// retained store. Delivery never blocks the publisher: a full subscription
// queue drops its oldest message.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.match(b.root, msg.Topic, msg)

	if msg.Retained {
		b.storeRetained(msg)
	}
}

// match walks the subscription trie against a concrete topic, following exact
// children, the single-level wildcard, and the multi-level wildcard.
func (b *Bus) match(n *node, topic Topic, msg *Message) {
	// A multi-level child matches here regardless of how many tokens remain.
	if child, ok := n.children[b.hash]; ok {
		deliver(child.subs, msg)
	}
	if len(topic) == 0 {
		deliver(n.subs, msg)
		return
	}
	if child, ok := n.children[topic[0]]; ok {
		b.match(child, topic[1:], msg)
	}
	if child, ok := n.children[b.plus]; ok {
		b.match(child, topic[1:], msg)
	}
}

func deliver(subs []*Subscription, msg *Message) {
	for _, sub := range subs {
		select {
		case sub.ch <- msg:
		default:
			// Drop oldest; the reader may have raced us, so retry gently.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- msg:
			default:
			}
		}
	}
}

func (b *Bus) storeRetained(msg *Message) {
	n := b.root
	for _, tok := range msg.Topic {
		if msg.Payload == nil {
			// Clearing: do not materialise missing nodes.
			if n.children == nil {
				return
			}
			child, ok := n.children[tok]
			if !ok {
				return
			}
			n = child
			continue
		}
		if n.children == nil {
			n.children = make(map[Token]*node)
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	if msg.Payload == nil {
		n.retained = nil
	} else {
		n.retained = msg
	}
}

// unsubscribe removes a subscription and prunes empty trie nodes.
func (b *Bus) unsubscribe(topic Topic, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	var stack []*node
	for _, t := range topic {
		if n.children == nil {
			return
		}
		child, ok := n.children[t]
		if !ok {
			return
		}
		stack = append(stack, n)
		n = child
	}

	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}

	for i := len(topic) - 1; i >= 0; i-- {
		parent := stack[i]
		key := topic[i]
		child := parent.children[key]
		if len(child.subs) == 0 && len(child.children) == 0 && child.retained == nil {
			delete(parent.children, key)
		} else {
			break
		}
	}
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

type Connection struct {
	bus  *Bus
	subs []*Subscription
	mu   sync.Mutex
	id   string
}

// NewConnection creates a named connection bound to this bus.
func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{
		bus: b,
		id:  id,
	}
}

// NewMessage builds a message for this connection's bus.
func (c *Connection) NewMessage(topic Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(topic, payload, retained)
}

// Publish sends a message via the bus.
func (c *Connection) Publish(msg *Message) {
	c.bus.Publish(msg)
}

// Subscribe registers a subscription owned by this connection.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan *Message, c.bus.qLen),
		bus:   c.bus,
		conn:  c,
	}
	c.bus.addSubscription(topic, sub)
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscription owned by this connection.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.bus.unsubscribe(sub.topic, sub)
	c.mu.Lock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	close(sub.ch)
}

// Disconnect closes all subscriptions and clears them.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		c.bus.unsubscribe(sub.topic, sub)
		close(sub.ch)
	}
}

// -----------------------------------------------------------------------------
// Request–Reply
// -----------------------------------------------------------------------------

// Request stamps the message with a fresh ReplyTo topic, subscribes to it,
// and publishes. The caller owns the returned subscription and must
// Unsubscribe when done.
func (c *Connection) Request(msg *Message) *Subscription {
	seq := c.bus.reqSeq.Add(1)
	msg.ReplyTo = Topic{"reply", c.id, int(seq)}
	sub := c.Subscribe(msg.ReplyTo)
	c.Publish(msg)
	return sub
}

// RequestWait publishes the request and blocks for a single reply or ctx
// expiry.
func (c *Connection) RequestWait(ctx context.Context, msg *Message) (*Message, error) {
	sub := c.Request(msg)
	defer c.Unsubscribe(sub)

	select {
	case reply, ok := <-sub.ch:
		if !ok {
			return nil, errors.New("bus: reply subscription closed")
		}
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reply answers a request on its ReplyTo topic. Messages without a ReplyTo
// are ignored.
func (c *Connection) Reply(req *Message, payload any, retained bool) {
	if len(req.ReplyTo) == 0 {
		return
	}
	c.Publish(c.NewMessage(req.ReplyTo, payload, retained))
}
