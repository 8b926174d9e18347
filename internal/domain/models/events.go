package models

import "time"

// Auth event types published to the event stream. Versioned the same way
// the platform's other services version their CloudEvents.
const (
	AuthUserLoginSuccessV1 = "auth.user.login_success.v1"
	AuthUserLoginFailedV1  = "auth.user.login_failed.v1"
	AuthOTPVerifiedV1      = "auth.otp.verified.v1"
	AuthUserLogoutV1       = "auth.user.logout.v1"
)

type UserLoginSuccessPayload struct {
	UserID           string    `json:"userId"`
	IPAddress        string    `json:"ipAddress"`
	TwoFactorPending bool      `json:"twoFactorPending"`
	LoginTimestamp   time.Time `json:"loginTimestamp"`
}

type UserLoginFailedPayload struct {
	AttemptedEmail   string    `json:"attemptedEmail"`
	FailureReason    string    `json:"failureReason"`
	IPAddress        string    `json:"ipAddress"`
	FailureTimestamp time.Time `json:"failureTimestamp"`
}

type OTPVerifiedPayload struct {
	UserID            string    `json:"userId"`
	VerifiedTimestamp time.Time `json:"verifiedTimestamp"`
}

type UserLogoutPayload struct {
	UserID          string    `json:"userId"`
	LogoutTimestamp time.Time `json:"logoutTimestamp"`
}
