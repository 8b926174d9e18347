package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the per-user authentication state held in the KV store under
// `session-<userId>`. Writing a new session for a user supersedes any
// previous one; there is never more than one live session per user.
type Session struct {
	UserID             uuid.UUID  `json:"userId"`
	RefreshToken       string     `json:"refreshToken"`
	RefreshTokenExpiry time.Time  `json:"refreshTokenExpiry"`
	OTPValue           string     `json:"otpValue,omitempty"` // Argon2id digest, empty when 2FA is off
	OTPVerified        bool       `json:"otpVerified"`
	OTPExpiry          time.Time  `json:"otpExpiry"`
	SessionStart       time.Time  `json:"sessionStart"`
	SessionEnd         *time.Time `json:"sessionEnd"`
	SessionAddress     string     `json:"sessionAddress"`
	SessionStatus      bool       `json:"sessionStatus"`
}

// CanRefresh reports whether the session may be exchanged for a new access
// token at the given instant. The TTL on the store and RefreshTokenExpiry
// are independent clocks, so both get checked.
func (s *Session) CanRefresh(now time.Time) bool {
	return s.SessionStatus && now.Before(s.RefreshTokenExpiry)
}

// TokenPair is what a fully authenticated login returns.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}
