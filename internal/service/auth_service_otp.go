package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/Wandor/journaling-node/internal/domain/errors"
	"github.com/Wandor/journaling-node/internal/domain/models"
	"github.com/Wandor/journaling-node/internal/utils/metrics"
	"github.com/Wandor/journaling-node/internal/utils/random"
)

// VerifyOTP checks the presented code against the session's stored digest.
// A verified OTP is single use: the session flips to verified and any
// further verify call is a conflict.
func (s *AuthService) VerifyOTP(ctx context.Context, userID uuid.UUID, otp string) error {
	now := s.now()

	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("no_session").Inc()
		return domainErrors.ErrSessionNotFound
	}

	if session.OTPVerified {
		metrics.OTPVerificationsTotal.WithLabelValues("replayed").Inc()
		return domainErrors.ErrOTPAlreadyUsed
	}
	if now.After(session.OTPExpiry) {
		metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
		return domainErrors.ErrOTPExpired
	}

	match, err := s.hasher.Verify(session.OTPValue, otp)
	if err != nil {
		s.logger.Error("OTP verification failed", zap.Error(err), zap.String("user_id", userID.String()))
		return domainErrors.ErrInternal
	}
	if !match {
		metrics.OTPVerificationsTotal.WithLabelValues("mismatch").Inc()
		return domainErrors.ErrInvalidOTP
	}

	session.OTPVerified = true
	session.OTPExpiry = now.Add(time.Duration(s.cfg.OTP.ExpiryMinutes) * time.Minute)
	if err := s.sessions.PutSession(ctx, session); err != nil {
		s.logger.Error("Failed to persist verified session", zap.Error(err), zap.String("user_id", userID.String()))
		return domainErrors.ErrInternal
	}

	if err := s.users.RecordOTPSend(ctx, userID, now); err != nil {
		s.logger.Error("Failed to record OTP verification", zap.Error(err), zap.String("user_id", userID.String()))
	}

	metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()
	s.publishEvent(ctx, models.AuthOTPVerifiedV1, userID.String(), models.OTPVerifiedPayload{
		UserID:            userID.String(),
		VerifiedTimestamp: now.UTC(),
	})
	return nil
}

// ResendOTP re-arms the OTP challenge on an existing session. Rate limited
// by the resend counter and the cooldown window together.
func (s *AuthService) ResendOTP(ctx context.Context, userID uuid.UUID) (string, error) {
	now := s.now()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", domainErrors.ErrUserNotFound
	}

	if s.otpResendCeilingHit(user, now) {
		return "", domainErrors.ErrRateLimitExceeded
	}

	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		return "", domainErrors.ErrSessionNotFound
	}

	otp, otpHash, err := s.issueOTP()
	if err != nil {
		return "", domainErrors.ErrInternal
	}

	session.OTPValue = otpHash
	session.OTPVerified = false
	session.OTPExpiry = now.Add(time.Duration(s.cfg.OTP.ExpiryMinutes) * time.Minute)
	if err := s.sessions.PutSession(ctx, session); err != nil {
		s.logger.Error("Failed to persist re-armed session", zap.Error(err), zap.String("user_id", userID.String()))
		return "", domainErrors.ErrInternal
	}

	if err := s.users.RecordOTPSend(ctx, userID, now); err != nil {
		s.logger.Error("Failed to record OTP resend", zap.Error(err), zap.String("user_id", userID.String()))
	}
	return otp, nil
}

// otpResendCeilingHit applies the resend policy: the ceiling only binds
// while the cooldown window since the last send is still open.
func (s *AuthService) otpResendCeilingHit(user *models.User, now time.Time) bool {
	if user.OTPResendCount < s.cfg.OTP.ResendMaxCount {
		return false
	}
	if user.LastOTPResendDate == nil {
		return false
	}
	hoursSince := now.Sub(*user.LastOTPResendDate).Hours()
	return hoursSince < float64(s.cfg.OTP.SendMaxHours)
}

func (s *AuthService) issueOTP() (otp string, digest string, err error) {
	otp, err = random.GenerateNumericCode(s.cfg.OTP.Digits)
	if err != nil {
		s.logger.Error("Failed to generate OTP", zap.Error(err))
		return "", "", err
	}
	digest, err = s.hasher.Hash(otp)
	if err != nil {
		s.logger.Error("Failed to hash OTP", zap.Error(err))
		return "", "", err
	}
	return otp, digest, nil
}
