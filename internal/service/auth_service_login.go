package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/Wandor/journaling-node/internal/domain/errors"
	"github.com/Wandor/journaling-node/internal/domain/models"
	"github.com/Wandor/journaling-node/internal/utils/metrics"
)

// LoginResult is what a login attempt produces: either a token pair, or an
// OTP challenge when the user has two-factor enabled.
type LoginResult struct {
	TwoFactor bool
	OTP       string
	UserID    uuid.UUID
	Tokens    *models.TokenPair
}

// Login authenticates credentials and creates the session record. The
// session supersedes any previous one for the user.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, ipAddress string) (*LoginResult, error) {
	now := s.now()

	user, err := s.users.FindByEmail(ctx, req.EmailAddress)
	if err != nil {
		s.logger.Warn("Login attempt for unknown email", zap.String("email", req.EmailAddress))
		metrics.LoginAttemptsTotal.WithLabelValues("user_not_found").Inc()
		s.publishLoginFailed(ctx, req.EmailAddress, "user_not_found", ipAddress)
		return nil, domainErrors.ErrUserNotFound
	}

	if !user.Status || user.IsLockedOut {
		s.logger.Warn("Login attempt for locked account", zap.String("user_id", user.ID.String()))
		metrics.LoginAttemptsTotal.WithLabelValues("account_locked").Inc()
		s.publishLoginFailed(ctx, req.EmailAddress, "account_locked", ipAddress)
		return nil, domainErrors.ErrUserLockedOut
	}

	active, err := s.passwords.FindActive(ctx, user.ID)
	if err != nil {
		s.logger.Warn("No active password record", zap.String("user_id", user.ID.String()), zap.Error(err))
		metrics.LoginAttemptsTotal.WithLabelValues("no_active_password").Inc()
		return nil, domainErrors.ErrUnauthorized
	}

	if !active.PasswordExpiry.After(now) {
		// Expired credential gets deactivated as a side effect so the next
		// sweep does not have to.
		if err := s.passwords.Deactivate(ctx, active.ID); err != nil {
			s.logger.Error("Failed to deactivate expired password", zap.Error(err), zap.String("user_id", user.ID.String()))
		}
		metrics.LoginAttemptsTotal.WithLabelValues("password_expired").Inc()
		return nil, domainErrors.ErrPasswordExpired
	}

	match, err := s.hasher.Verify(active.Password, req.Password)
	if err != nil {
		s.logger.Error("Password verification failed", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}
	if !match {
		lockOut := user.AccessFailedCount+1 >= s.cfg.Security.AccountLockMaxCount
		if err := s.users.RecordFailedLogin(ctx, user.ID, lockOut); err != nil {
			s.logger.Error("Failed to record failed login", zap.Error(err), zap.String("user_id", user.ID.String()))
		}
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		s.publishLoginFailed(ctx, req.EmailAddress, "invalid_credentials", ipAddress)
		return nil, domainErrors.ErrInvalidCredentials
	}

	prefs, err := s.prefs.Get(ctx, user.ID)
	twoFactor := err == nil && prefs != nil && prefs.TwoFactorEnabled

	accessToken, err := s.tokens.MintAccessToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("Failed to mint access token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}
	refreshToken := uuid.NewString()

	session := &models.Session{
		UserID:             user.ID,
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: now.Add(time.Duration(s.cfg.JWT.RefreshExpiryMinutes) * time.Minute),
		OTPVerified:        !twoFactor,
		OTPExpiry:          now.Add(time.Duration(s.cfg.OTP.ExpiryMinutes) * time.Minute),
		SessionStart:       now,
		SessionEnd:         nil,
		SessionAddress:     ipAddress,
		SessionStatus:      true,
	}

	result := &LoginResult{TwoFactor: twoFactor, UserID: user.ID}

	if twoFactor {
		if s.otpResendCeilingHit(user, now) {
			metrics.LoginAttemptsTotal.WithLabelValues("otp_rate_limited").Inc()
			return nil, domainErrors.ErrRateLimitExceeded
		}

		otp, otpHash, err := s.issueOTP()
		if err != nil {
			return nil, domainErrors.ErrInternal
		}
		session.OTPValue = otpHash
		result.OTP = otp

		if err := s.users.RecordOTPSend(ctx, user.ID, now); err != nil {
			s.logger.Error("Failed to record OTP send", zap.Error(err), zap.String("user_id", user.ID.String()))
		}
	} else {
		result.Tokens = &models.TokenPair{Token: accessToken, RefreshToken: refreshToken}
		if err := s.users.RecordLogin(ctx, user.ID, now); err != nil {
			s.logger.Error("Failed to record login", zap.Error(err), zap.String("user_id", user.ID.String()))
		}
	}

	if err := s.sessions.PutSession(ctx, session); err != nil {
		s.logger.Error("Failed to store session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.publishEvent(ctx, models.AuthUserLoginSuccessV1, user.ID.String(), models.UserLoginSuccessPayload{
		UserID:           user.ID.String(),
		IPAddress:        ipAddress,
		TwoFactorPending: twoFactor,
		LoginTimestamp:   now.UTC(),
	})

	return result, nil
}

// ResetPassword rotates the credential and reactivates the account,
// clearing any lockout. Placeholder for a verified reset flow.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domainErrors.ErrUserNotFound
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return domainErrors.ErrInternal
	}

	now := s.now()
	if err := s.users.ReactivateAccount(ctx, user.ID, now); err != nil {
		s.logger.Error("Failed to reactivate account", zap.Error(err), zap.String("user_id", user.ID.String()))
		return domainErrors.ErrInternal
	}

	expiry := now.AddDate(0, 0, s.cfg.Security.PasswordExpiryDays)
	if err := s.passwords.Rotate(ctx, user.ID, hash, expiry); err != nil {
		s.logger.Error("Failed to rotate password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return domainErrors.ErrInternal
	}
	return nil
}

func (s *AuthService) publishLoginFailed(ctx context.Context, email, reason, ipAddress string) {
	s.publishEvent(ctx, models.AuthUserLoginFailedV1, email, models.UserLoginFailedPayload{
		AttemptedEmail:   email,
		FailureReason:    reason,
		IPAddress:        ipAddress,
		FailureTimestamp: s.now().UTC(),
	})
}
