package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/Wandor/journaling-node/internal/domain/errors"
	"github.com/Wandor/journaling-node/internal/domain/models"
	"github.com/Wandor/journaling-node/internal/service"
)

// otpMessagePrefix is what the OTP delivery placeholder returns in the
// response body until a real SMS/email channel is wired.
const otpMessagePrefix = "Your One Time Password is: "

// AuthHandler exposes the session lifecycle endpoints.
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Login authenticates a user and either returns tokens or, when the
// second factor is enabled, issues an OTP challenge.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, bindingErrorMessage(err), h.logger)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUserNotFound):
			RespondWithError(c, http.StatusNotFound, "User does not exist", h.logger)
		case errors.Is(err, domainErrors.ErrUserLockedOut):
			RespondWithError(c, http.StatusUnauthorized, "Account locked! Contact our help desk", h.logger)
		case errors.Is(err, domainErrors.ErrPasswordExpired):
			RespondWithError(c, http.StatusUnauthorized, "Password expired!", h.logger)
		case errors.Is(err, domainErrors.ErrUnauthorized):
			RespondWithError(c, http.StatusUnauthorized, "Unauthorized!", h.logger)
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", h.logger)
		case errors.Is(err, domainErrors.ErrRateLimitExceeded):
			RespondWithError(c, http.StatusTooManyRequests, "Too Many OTP requests, try again later!", h.logger)
		default:
			RespondWithError(c, http.StatusInternalServerError, "Login failed", h.logger)
		}
		return
	}

	if result.TwoFactor {
		RespondWithData(c, http.StatusOK, gin.H{
			"message": otpMessagePrefix + result.OTP,
			"userId":  result.UserID,
		})
		return
	}

	RespondWithData(c, http.StatusOK, result.Tokens)
}

// VerifyOTP completes the second factor for a pending session.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, bindingErrorMessage(err), h.logger)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, "userId must be a valid UUID", h.logger)
		return
	}

	if err := h.authService.VerifyOTP(c.Request.Context(), userID, req.OTPValue); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrSessionNotFound):
			RespondWithError(c, http.StatusUnauthorized, "No active session", h.logger)
		case errors.Is(err, domainErrors.ErrOTPAlreadyUsed):
			RespondWithError(c, http.StatusConflict, "OTP already used, request for another one", h.logger)
		case errors.Is(err, domainErrors.ErrOTPExpired):
			RespondWithError(c, http.StatusConflict, "OTP expired!", h.logger)
		case errors.Is(err, domainErrors.ErrInvalidOTP):
			RespondWithError(c, http.StatusBadRequest, "Invalid OTP", h.logger)
		default:
			RespondWithError(c, http.StatusInternalServerError, "OTP verification failed", h.logger)
		}
		return
	}

	RespondWithMessage(c, http.StatusOK, "OTP Verified!")
}

// ResendOTP issues a fresh OTP for an existing pending session.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req models.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, bindingErrorMessage(err), h.logger)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, "userId must be a valid UUID", h.logger)
		return
	}

	otp, err := h.authService.ResendOTP(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUserNotFound):
			RespondWithError(c, http.StatusNotFound, "User does not exists", h.logger)
		case errors.Is(err, domainErrors.ErrSessionNotFound):
			RespondWithError(c, http.StatusNotFound, "Session not found! Log in again", h.logger)
		case errors.Is(err, domainErrors.ErrRateLimitExceeded):
			RespondWithError(c, http.StatusTooManyRequests, "Surpassed Maximum Number of OTP Resends! Contact Administrator!", h.logger)
		default:
			RespondWithError(c, http.StatusInternalServerError, "Failed to resend OTP", h.logger)
		}
		return
	}

	RespondWithMessage(c, http.StatusOK, otpMessagePrefix+otp)
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, bindingErrorMessage(err), h.logger)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, "userId must be a valid UUID", h.logger)
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), userID, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrSessionNotFound):
			RespondWithError(c, http.StatusNotFound, "No active session", h.logger)
		case errors.Is(err, domainErrors.ErrSessionExpired):
			RespondWithError(c, http.StatusUnauthorized, "Session expired!", h.logger)
		case errors.Is(err, domainErrors.ErrInvalidSession):
			RespondWithError(c, http.StatusUnauthorized, "Invalid session", h.logger)
		case errors.Is(err, domainErrors.ErrUnauthorized):
			RespondWithError(c, http.StatusUnauthorized, "User does not exist!", h.logger)
		default:
			RespondWithError(c, http.StatusInternalServerError, "Failed to refresh token", h.logger)
		}
		return
	}

	RespondWithData(c, http.StatusOK, tokens)
}

// Logout terminates a user's session. A missing userId is a client
// error, not a silent no-op.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if req.UserID == "" {
		RespondWithError(c, http.StatusBadRequest, "userId is required", h.logger)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, "userId must be a valid UUID", h.logger)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		RespondWithError(c, http.StatusInternalServerError, "Logout failed", h.logger)
		return
	}

	RespondWithMessage(c, http.StatusOK, "logout successful")
}

// ResetPassword rotates a user's credential and clears any lockout.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, bindingErrorMessage(err), h.logger)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.EmailAddress, req.Password); err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			RespondWithError(c, http.StatusNotFound, "User does not exists", h.logger)
			return
		}
		RespondWithError(c, http.StatusInternalServerError, "Password reset failed", h.logger)
		return
	}

	RespondWithMessage(c, http.StatusCreated, "Password has been changed")
}
