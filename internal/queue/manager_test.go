package queue

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/config"
)

// fakeChannel records everything the manager and dispatcher do to it and
// lets tests drive confirmations, closures and deliveries.
type fakeChannel struct {
	mu         sync.Mutex
	routes     []string
	published  []amqp.Publishing
	acked      []uint64
	nacked     []uint64
	requeued   []bool
	publishErr error

	confirms   chan amqp.Confirmation
	closeCh    chan *amqp.Error
	deliveries chan amqp.Delivery
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{deliveries: make(chan amqp.Delivery)}
}

func (c *fakeChannel) Confirm(bool) error { return nil }

func (c *fakeChannel) NotifyPublish(ch chan amqp.Confirmation) chan amqp.Confirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirms = ch
	return ch
}

func (c *fakeChannel) NotifyClose(ch chan *amqp.Error) chan *amqp.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeCh = ch
	return ch
}

func (c *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.routes = append(c.routes, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Qos(int, int, bool) error { return nil }

func (c *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return c.deliveries, nil
}

func (c *fakeChannel) Ack(tag uint64, _ bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acked = append(c.acked, tag)
	return nil
}

func (c *fakeChannel) Nack(tag uint64, _, requeue bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nacked = append(c.nacked, tag)
	c.requeued = append(c.requeued, requeue)
	return nil
}

func (c *fakeChannel) Close() error { return nil }

func (c *fakeChannel) bodies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.published))
	for i, msg := range c.published {
		out[i] = string(msg.Body)
	}
	return out
}

func (c *fakeChannel) publishCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.published)
}

// confirm delivers a broker confirmation once the manager has registered
// its confirmation channel.
func (c *fakeChannel) confirm(t *testing.T, tag uint64, ack bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.confirms != nil
	}, time.Second, time.Millisecond)
	c.mu.Lock()
	ch := c.confirms
	c.mu.Unlock()
	ch <- amqp.Confirmation{DeliveryTag: tag, Ack: ack}
}

// fakeConn hands out its channels in order.
type fakeConn struct {
	mu       sync.Mutex
	channels []*fakeChannel
	next     int
	closeCh  chan *amqp.Error
	closed   bool
}

func newFakeConn(channels ...*fakeChannel) *fakeConn {
	return &fakeConn{channels: channels}
}

func (c *fakeConn) Channel() (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.next >= len(c.channels) {
		return nil, errors.New("no more channels")
	}
	ch := c.channels[c.next]
	c.next++
	return ch, nil
}

func (c *fakeConn) NotifyClose(ch chan *amqp.Error) chan *amqp.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeCh = ch
	return ch
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// fail delivers a connection-level error once the manager is listening.
func (c *fakeConn) fail(t *testing.T, reason string) {
	t.Helper()
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.closeCh != nil
	}, time.Second, time.Millisecond)
	c.mu.Lock()
	ch := c.closeCh
	c.mu.Unlock()
	ch <- &amqp.Error{Code: 320, Reason: reason}
}

func testAMQPConfig() config.AMQPConfig {
	return config.AMQPConfig{
		URL:             "amqp://localhost",
		Exchange:        "",
		RoutingKey:      "entry_queue",
		Queue:           "entry_queue",
		DeadLetterQueue: "entry_queue_dlx",
		Prefetch:        2,
		ReconnectDelay:  10 * time.Millisecond,
		MaxRetries:      3,
	}
}

// queuedDialer returns the prepared connections (or errors) in sequence
// and blocks further dial attempts until the test finishes.
func queuedDialer(results ...any) Dialer {
	idx := 0
	var mu sync.Mutex
	return func(string) (Connection, error) {
		mu.Lock()
		defer mu.Unlock()
		if idx >= len(results) {
			return nil, errors.New("broker unavailable")
		}
		result := results[idx]
		idx++
		if err, ok := result.(error); ok {
			return nil, err
		}
		return result.(Connection), nil
	}
}

func TestManagerPublishesInOrder(t *testing.T) {
	ch := newFakeChannel()
	conn := newFakeConn(ch)
	m := NewConnectionManager(testAMQPConfig(), queuedDialer(conn), nil, zap.NewNop())
	m.Start()

	m.Publish("", "entry_queue", []byte("m1"))
	m.Publish("", "entry_queue", []byte("m2"))
	m.Publish("", "entry_queue", []byte("m3"))

	require.Eventually(t, func() bool { return ch.publishCount() == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ch.bodies())

	ch.confirm(t, 1, true)
	ch.confirm(t, 2, true)
	ch.confirm(t, 3, true)

	m.Close()
	assert.True(t, conn.closed)
	assert.Equal(t, StateDisconnected, m.State())
}

func TestManagerBuffersWhileDisconnectedAndReplaysInOrder(t *testing.T) {
	cfg := testAMQPConfig()
	cfg.ReconnectDelay = 100 * time.Millisecond

	ch := newFakeChannel()
	conn := newFakeConn(ch)
	m := NewConnectionManager(cfg, queuedDialer(errors.New("broker down"), conn), nil, zap.NewNop())
	m.Start()

	// The first dial fails, so these land in the offline buffer while the
	// manager waits out the reconnect delay.
	m.Publish("", "entry_queue", []byte("m1"))
	m.Publish("", "entry_queue", []byte("m2"))
	m.Publish("", "entry_queue", []byte("m3"))

	require.Eventually(t, func() bool { return ch.publishCount() == 3 }, 2*time.Second, time.Millisecond)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ch.bodies())

	m.Close()
}

func TestManagerRequeuesUnconfirmedOnNack(t *testing.T) {
	first := newFakeChannel()
	second := newFakeChannel()
	conn1 := newFakeConn(first)
	conn2 := newFakeConn(second)
	m := NewConnectionManager(testAMQPConfig(), queuedDialer(conn1, conn2), nil, zap.NewNop())
	m.Start()

	m.Publish("", "entry_queue", []byte("m1"))
	m.Publish("", "entry_queue", []byte("m2"))
	require.Eventually(t, func() bool { return first.publishCount() == 2 }, time.Second, time.Millisecond)

	// The broker refuses m1. Both unconfirmed messages must be replayed
	// on the next connection with m1 still first.
	first.confirm(t, 1, false)

	require.Eventually(t, func() bool { return second.publishCount() == 2 }, 2*time.Second, time.Millisecond)
	assert.Equal(t, []string{"m1", "m2"}, second.bodies())

	m.Close()
}

func TestManagerReconnectsOnConnectionError(t *testing.T) {
	first := newFakeChannel()
	second := newFakeChannel()
	conn1 := newFakeConn(first)
	conn2 := newFakeConn(second)
	m := NewConnectionManager(testAMQPConfig(), queuedDialer(conn1, conn2), nil, zap.NewNop())
	m.Start()

	m.Publish("", "entry_queue", []byte("m1"))
	require.Eventually(t, func() bool { return first.publishCount() == 1 }, time.Second, time.Millisecond)

	// Connection-level failure before the confirm arrives: the pending
	// message is replayed on the next connection.
	conn1.fail(t, "connection reset")

	require.Eventually(t, func() bool { return second.publishCount() == 1 }, 2*time.Second, time.Millisecond)
	assert.Equal(t, []string{"m1"}, second.bodies())

	m.Close()
}

func TestManagerPublishAfterCloseIsDropped(t *testing.T) {
	ch := newFakeChannel()
	conn := newFakeConn(ch)
	m := NewConnectionManager(testAMQPConfig(), queuedDialer(conn), nil, zap.NewNop())
	m.Start()
	m.Close()

	// Must not block or panic.
	m.Publish("", "entry_queue", []byte("late"))
	assert.Zero(t, ch.publishCount())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "publisher_ready", StatePublisherReady.String())
	assert.Equal(t, "consumer_ready", StateConsumerReady.String())
}
