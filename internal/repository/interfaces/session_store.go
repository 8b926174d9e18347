package interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/Wandor/journaling-node/internal/domain/models"
)

// SessionStore is the typed session record store. One record per user,
// replace-on-write; implementations keep the store-level TTL independent of
// the record's own expiry fields.
type SessionStore interface {
	GetSession(ctx context.Context, userID uuid.UUID) (*models.Session, error)
	PutSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, userID uuid.UUID) error
}
