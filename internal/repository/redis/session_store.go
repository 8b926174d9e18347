package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/domain/errors"
	"github.com/Wandor/journaling-node/internal/domain/models"
)

const sessionKeyPrefix = "session"

// SessionStore is the typed session record store layered on the generic KV
// store, so the rest of the service never assembles key strings by hand.
type SessionStore struct {
	kv     *Store
	logger *zap.Logger
	ttl    int // seconds
}

func NewSessionStore(kv *Store, logger *zap.Logger, ttlSeconds int) *SessionStore {
	return &SessionStore{kv: kv, logger: logger, ttl: ttlSeconds}
}

// GetSession loads the session record for a user. A miss (including a TTL
// eviction) is ErrSessionNotFound.
func (s *SessionStore) GetSession(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	value := s.kv.Get(ctx, fmt.Sprintf("%s-%s", sessionKeyPrefix, userID))
	if value == nil {
		return nil, errors.ErrSessionNotFound
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("re-encode session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Warn("Session record is malformed, treating as missing",
			zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errors.ErrSessionNotFound
	}
	return &session, nil
}

// PutSession writes the record with replace-on-write semantics and resets
// the store TTL. The record's own expiry fields stay authoritative for
// refresh decisions.
func (s *SessionStore) PutSession(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	var value map[string]any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}

	ok := s.kv.Set(ctx, SetParams{
		Key:    sessionKeyPrefix,
		Value:  value,
		Expiry: s.ttl,
		DataActions: &DataActions{
			SetAsArray:     false,
			ActionIfExists: ActionReplace,
			UniqueKey:      "userId",
		},
	})
	if !ok {
		return fmt.Errorf("store session for user %s", session.UserID)
	}
	return nil
}

// DeleteSession drops the record, best effort.
func (s *SessionStore) DeleteSession(ctx context.Context, userID uuid.UUID) error {
	s.kv.Del(ctx, fmt.Sprintf("%s-%s", sessionKeyPrefix, userID))
	return nil
}
