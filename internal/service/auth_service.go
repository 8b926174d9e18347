package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/config"
	domaininterfaces "github.com/Wandor/journaling-node/internal/domain/interfaces"
	"github.com/Wandor/journaling-node/internal/domain/models"
	"github.com/Wandor/journaling-node/internal/repository/interfaces"
)

// TokenMinter issues short-lived access tokens.
type TokenMinter interface {
	MintAccessToken(userID uuid.UUID, role string) (string, error)
}

// AuthService owns the session lifecycle: login, OTP issuance and
// verification, refresh, logout. All session state lives in the
// SessionStore; the relational stores are read for credentials and
// written for counters and audit fields.
type AuthService struct {
	users     interfaces.UserStore
	passwords interfaces.PasswordStore
	prefs     interfaces.PreferencesStore
	sessions  interfaces.SessionStore
	hasher    domaininterfaces.PasswordHasher
	tokens    TokenMinter
	events    domaininterfaces.EventPublisher
	cfg       *config.Config
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(
	users interfaces.UserStore,
	passwords interfaces.PasswordStore,
	prefs interfaces.PreferencesStore,
	sessions interfaces.SessionStore,
	hasher domaininterfaces.PasswordHasher,
	tokens TokenMinter,
	events domaininterfaces.EventPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		prefs:     prefs,
		sessions:  sessions,
		hasher:    hasher,
		tokens:    tokens,
		events:    events,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Logout drops the user's session unconditionally. Deleting an absent
// session is not an error.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.DeleteSession(ctx, userID); err != nil {
		s.logger.Error("Failed to delete session", zap.Error(err), zap.String("user_id", userID.String()))
		return err
	}
	s.publishEvent(ctx, models.AuthUserLogoutV1, userID.String(), models.UserLogoutPayload{
		UserID:          userID.String(),
		LogoutTimestamp: s.now().UTC(),
	})
	return nil
}

// SweepExpiredPasswords deactivates password rows past their expiry. Run
// periodically by the app.
func (s *AuthService) SweepExpiredPasswords(ctx context.Context) {
	count, err := s.passwords.DeactivateExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to deactivate expired passwords", zap.Error(err))
		return
	}
	s.logger.Info("Deactivated expired passwords", zap.Int64("count", count))
}

func (s *AuthService) publishEvent(ctx context.Context, eventType, subject string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, subject, payload); err != nil {
		s.logger.Error("Failed to publish auth event",
			zap.String("event_type", eventType), zap.Error(err))
	}
}
