package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/Wandor/journaling-node/internal/domain/errors"
	"github.com/Wandor/journaling-node/internal/domain/models"
)

// RefreshToken exchanges a valid refresh token for a new access token.
// The stored refresh token is not rotated unless rotation is enabled in
// config; by default the same token stays valid until its fixed expiry.
func (s *AuthService) RefreshToken(ctx context.Context, userID uuid.UUID, presented string) (*models.TokenPair, error) {
	now := s.now()

	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		return nil, domainErrors.ErrSessionNotFound
	}

	if !session.CanRefresh(now) {
		return nil, domainErrors.ErrSessionExpired
	}
	if presented != session.RefreshToken {
		return nil, domainErrors.ErrInvalidSession
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Refresh for missing user", zap.String("user_id", userID.String()))
		return nil, domainErrors.ErrUnauthorized
	}

	accessToken, err := s.tokens.MintAccessToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("Failed to mint access token", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, domainErrors.ErrInternal
	}

	refreshToken := session.RefreshToken
	if s.cfg.Security.RotateRefreshTokens {
		refreshToken = uuid.NewString()
		session.RefreshToken = refreshToken
		session.RefreshTokenExpiry = now.Add(time.Duration(s.cfg.JWT.RefreshExpiryMinutes) * time.Minute)
	}

	// Re-persisting resets the store TTL; the logical expiry fields are
	// untouched on the non-rotating path.
	if err := s.sessions.PutSession(ctx, session); err != nil {
		s.logger.Error("Failed to persist refreshed session", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, domainErrors.ErrInternal
	}

	return &models.TokenPair{Token: accessToken, RefreshToken: refreshToken}, nil
}
