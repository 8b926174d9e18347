package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Wandor/journaling-node/internal/queue"
)

// HealthHandler reports the reachability of the service's collaborators:
// Postgres, Redis and the message broker.
type HealthHandler struct {
	db     *pgxpool.Pool
	redis  *redis.Client
	broker *queue.ConnectionManager
}

func NewHealthHandler(db *pgxpool.Pool, redisClient *redis.Client, broker *queue.ConnectionManager) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, broker: broker}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	checks["postgres"] = statusFor(h.db.Ping(ctx))
	if checks["postgres"] != "ok" {
		healthy = false
	}

	checks["redis"] = statusFor(h.redis.Ping(ctx).Err())
	if checks["redis"] != "ok" {
		healthy = false
	}

	// The broker reconnects on its own; anything short of a live connection
	// is degraded, not down.
	state := h.broker.State()
	checks["amqp"] = state.String()

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": overallStatus(healthy, state), "checks": checks})
}

func statusFor(err error) string {
	if err != nil {
		return "unreachable"
	}
	return "ok"
}

func overallStatus(healthy bool, state queue.State) string {
	switch {
	case !healthy:
		return "unhealthy"
	case state < queue.StateConnected:
		return "degraded"
	default:
		return "ok"
	}
}
