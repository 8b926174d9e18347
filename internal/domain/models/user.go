package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record backing authentication. The relational
// schema behind it is owned by the persistence layer.
type User struct {
	ID                      uuid.UUID  `json:"id"`
	EmailAddress            string     `json:"emailAddress"`
	Role                    string     `json:"role"`
	Status                  bool       `json:"status"`
	IsLockedOut             bool       `json:"isLockedOut"`
	AccessFailedCount       int        `json:"accessFailedCount"`
	OTPResendCount          int        `json:"otpResendCount"`
	OTPSent                 bool       `json:"otpSent"`
	LastOTPResendDate       *time.Time `json:"lastOTPResendDate,omitempty"`
	LastLoginDate           *time.Time `json:"lastLoginDate,omitempty"`
	LastPasswordChangedDate *time.Time `json:"lastPasswordChangedDate,omitempty"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// Password is one credential row; at most one row per user is active.
type Password struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	Password       string    `json:"-"`
	PasswordExpiry time.Time `json:"passwordExpiry"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserPreferences gates the optional second factor and the post-processing
// behaviors. Absent preferences mean everything is off.
type UserPreferences struct {
	UserID           uuid.UUID `json:"userId"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	AutoTag          bool      `json:"autoTag"`
	AutoCategorize   bool      `json:"autoCategorize"`
	Summarize        bool      `json:"summarize"`
}
