package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	OTPVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_otp_verifications_total",
		Help: "OTP verification attempts by outcome.",
	}, []string{"outcome"})

	QueuePublishesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_queue_publishes_total",
		Help: "Queue publishes by result (confirmed, buffered, failed).",
	}, []string{"result"})

	QueueMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_queue_messages_total",
		Help: "Consumed queue messages by disposition (acked, retried, dead_lettered, dropped).",
	}, []string{"disposition"})

	QueueReconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journal_queue_reconnects_total",
		Help: "Broker reconnect attempts.",
	})

	OfflineQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "journal_queue_offline_depth",
		Help: "Publishes buffered while the broker connection is down.",
	})
)
