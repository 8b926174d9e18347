package queue

import (
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/config"
	"github.com/Wandor/journaling-node/internal/utils/metrics"
)

// State of the logical broker connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StatePublisherReady
	StateConsumerReady
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StatePublisherReady:
		return "publisher_ready"
	case StateConsumerReady:
		return "consumer_ready"
	default:
		return "disconnected"
	}
}

// PublishRequest is one pending publish.
type PublishRequest struct {
	Exchange   string
	RoutingKey string
	Body       []byte
}

// ConnectionManager owns the single logical connection to the broker. All
// connection, channel and offline-buffer state is confined to the run
// goroutine; the rest of the process talks to it through the publish
// command channel, so reconnects can never race an in-flight publish.
//
// Lifecycle: DISCONNECTED -> CONNECTING -> CONNECTED -> PUBLISHER_READY
// (and CONSUMER_READY when a dispatcher is registered), looping back to
// CONNECTING after a fixed delay on any connection-level failure. It
// reconnects forever; only Close stops it.
type ConnectionManager struct {
	cfg    config.AMQPConfig
	dial   Dialer
	logger *zap.Logger

	dispatcher *Dispatcher // optional consumer side

	publishCh chan PublishRequest
	offline   []PublishRequest // FIFO, only touched by the run goroutine

	done     chan struct{}
	finished chan struct{}
	once     sync.Once

	mu    sync.RWMutex
	state State
}

func NewConnectionManager(cfg config.AMQPConfig, dial Dialer, dispatcher *Dispatcher, logger *zap.Logger) *ConnectionManager {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = time.Second
	}
	return &ConnectionManager{
		cfg:        cfg,
		dial:       dial,
		logger:     logger,
		dispatcher: dispatcher,
		publishCh:  make(chan PublishRequest, 256),
		done:       make(chan struct{}),
		finished:   make(chan struct{}),
		state:      StateDisconnected,
	}
}

// Start launches the run loop.
func (m *ConnectionManager) Start() {
	go m.run()
}

// Close shuts the manager down. The in-progress connection is closed
// explicitly, which the run loop treats as terminal rather than as a
// reason to reconnect.
func (m *ConnectionManager) Close() {
	m.once.Do(func() { close(m.done) })
	<-m.finished
}

// State reports the current connection state.
func (m *ConnectionManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Publish hands a message to the manager. It never blocks on the broker:
// when the connection is down the message lands in the offline buffer and
// is replayed in order after the next reconnect.
func (m *ConnectionManager) Publish(exchange, routingKey string, body []byte) {
	req := PublishRequest{Exchange: exchange, RoutingKey: routingKey, Body: body}
	select {
	case m.publishCh <- req:
	case <-m.done:
		m.logger.Warn("Publish after shutdown dropped", zap.String("routing_key", routingKey))
	}
}

func (m *ConnectionManager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *ConnectionManager) run() {
	defer close(m.finished)
	defer m.setState(StateDisconnected)

	for {
		m.setState(StateConnecting)
		conn, err := m.dial(m.cfg.URL)
		if err != nil {
			m.logger.Error("Failed to connect to broker", zap.Error(err))
			if m.waitReconnect() {
				return
			}
			continue
		}

		m.setState(StateConnected)
		m.logger.Info("Connected to broker")

		reconnect := m.serveConnection(conn)
		_ = conn.Close()
		m.setState(StateDisconnected)
		if !reconnect {
			return
		}
		metrics.QueueReconnectsTotal.Inc()
		if m.waitReconnect() {
			return
		}
	}
}

// waitReconnect sleeps the fixed reconnect delay while still accepting
// publishes into the offline buffer. Returns true on shutdown.
func (m *ConnectionManager) waitReconnect() bool {
	deadline := time.NewTimer(m.cfg.ReconnectDelay)
	defer deadline.Stop()
	for {
		select {
		case <-m.done:
			return true
		case req := <-m.publishCh:
			m.buffer(req)
		case <-deadline.C:
			return false
		}
	}
}

// serveConnection runs the publisher (and consumer, when configured) until
// the connection dies or the manager shuts down. Returns whether the run
// loop should reconnect.
func (m *ConnectionManager) serveConnection(conn Connection) bool {
	connClose := conn.NotifyClose(make(chan *amqp.Error, 1))

	pubCh, err := conn.Channel()
	if err != nil {
		m.logger.Error("Failed to open publisher channel", zap.Error(err))
		return true
	}
	if err := pubCh.Confirm(false); err != nil {
		m.logger.Error("Failed to put channel in confirm mode", zap.Error(err))
		return true
	}
	confirms := pubCh.NotifyPublish(make(chan amqp.Confirmation, 64))
	chanClose := pubCh.NotifyClose(make(chan *amqp.Error, 1))

	m.setState(StatePublisherReady)

	if m.dispatcher != nil {
		workCh, err := conn.Channel()
		if err != nil {
			m.logger.Error("Failed to open worker channel", zap.Error(err))
			return true
		}
		if err := m.dispatcher.start(workCh); err != nil {
			m.logger.Error("Failed to start consumer", zap.Error(err))
			return true
		}
		m.setState(StateConsumerReady)
	}

	// Replay buffered publishes in FIFO order before serving new ones.
	// pending tracks messages published but not yet confirmed, in
	// delivery-tag order, so a broker nack can requeue the right one.
	var pending []PublishRequest
	for len(m.offline) > 0 {
		req := m.offline[0]
		m.offline = m.offline[1:]
		metrics.OfflineQueueDepth.Set(float64(len(m.offline)))
		if !m.publishOne(pubCh, req, &pending) {
			return true
		}
	}

	for {
		select {
		case <-m.done:
			return false

		case amqpErr := <-connClose:
			if amqpErr == nil {
				// Explicit closure, treat as intentional shutdown.
				m.logger.Info("Broker connection closed")
				return false
			}
			m.logger.Error("Broker connection error", zap.String("reason", amqpErr.Reason))
			m.requeuePending(pending)
			return true

		case amqpErr := <-chanClose:
			// Channel-level closure is logged but does not by itself force
			// a reconnect; only connection-level failure does.
			if amqpErr != nil {
				m.logger.Warn("Publisher channel closed", zap.String("reason", amqpErr.Reason))
			} else {
				m.logger.Warn("Publisher channel closed")
			}
			chanClose = nil

		case confirmation := <-confirms:
			if len(pending) == 0 {
				continue
			}
			req := pending[0]
			pending = pending[1:]
			if confirmation.Ack {
				metrics.QueuePublishesTotal.WithLabelValues("confirmed").Inc()
				continue
			}
			// Broker refused the message: buffer it ahead of the other
			// unconfirmed ones and bounce the connection so the reconnect
			// path retries them in order.
			m.logger.Error("Publish nacked by broker", zap.Uint64("delivery_tag", confirmation.DeliveryTag))
			metrics.QueuePublishesTotal.WithLabelValues("buffered").Inc()
			m.requeuePending(append([]PublishRequest{req}, pending...))
			return true

		case req := <-m.publishCh:
			if !m.publishOne(pubCh, req, &pending) {
				return true
			}
		}
	}
}

// publishOne publishes persistently; a synchronous failure buffers the
// message and reports the connection as unusable.
func (m *ConnectionManager) publishOne(ch Channel, req PublishRequest, pending *[]PublishRequest) bool {
	err := ch.Publish(req.Exchange, req.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         req.Body,
	})
	if err != nil {
		m.logger.Error("Publish failed", zap.String("routing_key", req.RoutingKey), zap.Error(err))
		metrics.QueuePublishesTotal.WithLabelValues("failed").Inc()
		m.buffer(req)
		m.requeuePending(*pending)
		return false
	}
	*pending = append(*pending, req)
	return true
}

// requeuePending puts unconfirmed publishes back at the head of the
// offline buffer, preserving order ahead of anything buffered later.
func (m *ConnectionManager) requeuePending(pending []PublishRequest) {
	if len(pending) == 0 {
		return
	}
	m.offline = append(append([]PublishRequest{}, pending...), m.offline...)
	metrics.OfflineQueueDepth.Set(float64(len(m.offline)))
}

func (m *ConnectionManager) buffer(req PublishRequest) {
	m.offline = append(m.offline, req)
	metrics.QueuePublishesTotal.WithLabelValues("buffered").Inc()
	metrics.OfflineQueueDepth.Set(float64(len(m.offline)))
}
