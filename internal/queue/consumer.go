package queue

import (
	"context"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/config"
	"github.com/Wandor/journaling-node/internal/utils/metrics"
)

const retryCountHeader = "x-retry-count"

// WorkerFunc processes one delivery and signals the outcome through done.
// done(true) acknowledges, done(false) sends the message down the bounded
// retry path.
type WorkerFunc func(ctx context.Context, msg amqp.Delivery, done func(ok bool))

// Dispatcher consumes the durable entry queue with manual acknowledgement
// and dispatches deliveries to a bounded pool of worker goroutines (pool
// size = prefetch), so the prefetch window is actually exploited instead
// of serialized.
type Dispatcher struct {
	cfg    config.AMQPConfig
	worker WorkerFunc
	logger *zap.Logger

	ctx context.Context
	wg  sync.WaitGroup
}

func NewDispatcher(ctx context.Context, cfg config.AMQPConfig, worker WorkerFunc, logger *zap.Logger) *Dispatcher {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 30
	}
	return &Dispatcher{cfg: cfg, worker: worker, logger: logger, ctx: ctx}
}

// start wires the dispatcher onto a fresh worker channel. Called by the
// connection manager on every (re)connect; the previous generation of
// goroutines winds down when its delivery channel closes.
func (d *Dispatcher) start(ch Channel) error {
	if err := ch.Qos(d.cfg.Prefetch, 0, false); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(d.cfg.Queue, true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(d.cfg.DeadLetterQueue, true, false, false, false, nil); err != nil {
		return err
	}

	deliveries, err := ch.Consume(d.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	internal := make(chan amqp.Delivery)

	for i := 0; i < d.cfg.Prefetch; i++ {
		d.wg.Add(1)
		go d.workerLoop(ch, internal)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(internal)
		for msg := range deliveries {
			if len(msg.Body) == 0 && msg.DeliveryTag == 0 {
				// Broker-initiated cancel signal; drop without ack.
				d.logger.Warn("Received empty delivery, dropping")
				metrics.QueueMessagesTotal.WithLabelValues("dropped").Inc()
				continue
			}
			select {
			case internal <- msg:
			case <-d.ctx.Done():
				return
			}
		}
		d.logger.Warn("Delivery channel closed")
	}()

	d.logger.Info("Journal entry queue worker started",
		zap.String("queue", d.cfg.Queue), zap.Int("prefetch", d.cfg.Prefetch))
	return nil
}

// Wait blocks until all worker goroutines of every generation have exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) workerLoop(ch Channel, internal <-chan amqp.Delivery) {
	defer d.wg.Done()
	for msg := range internal {
		d.worker(d.ctx, msg, func(ok bool) {
			if ok {
				if err := ch.Ack(msg.DeliveryTag, false); err != nil {
					d.logger.Error("Failed to ack message", zap.Error(err))
					return
				}
				metrics.QueueMessagesTotal.WithLabelValues("acked").Inc()
				return
			}
			d.retryOrDeadLetter(ch, msg)
		})
	}
}

// retryOrDeadLetter bounds redelivery: below the ceiling the message is
// republished with an incremented retry header and the original delivery
// acked; at the ceiling it goes to the dead-letter queue. If republishing
// itself fails, fall back to a broker-side requeue.
func (d *Dispatcher) retryOrDeadLetter(ch Channel, msg amqp.Delivery) {
	retries := retryCount(msg.Headers)

	target := d.cfg.Queue
	disposition := "retried"
	if retries >= d.cfg.MaxRetries {
		target = d.cfg.DeadLetterQueue
		disposition = "dead_lettered"
	}

	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[retryCountHeader] = int32(retries + 1)

	err := ch.Publish("", target, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Headers:      headers,
		Body:         msg.Body,
	})
	if err != nil {
		d.logger.Error("Failed to republish message, requeueing", zap.Error(err))
		if nackErr := ch.Nack(msg.DeliveryTag, false, true); nackErr != nil {
			d.logger.Error("Failed to nack message", zap.Error(nackErr))
		}
		return
	}

	if err := ch.Ack(msg.DeliveryTag, false); err != nil {
		d.logger.Error("Failed to ack retried message", zap.Error(err))
		return
	}

	if disposition == "dead_lettered" {
		d.logger.Warn("Message exceeded retry budget, dead-lettered",
			zap.Int("retries", retries), zap.String("queue", d.cfg.DeadLetterQueue))
	}
	metrics.QueueMessagesTotal.WithLabelValues(disposition).Inc()
}

func retryCount(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	switch v := headers[retryCountHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
