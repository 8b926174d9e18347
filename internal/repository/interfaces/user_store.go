package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Wandor/journaling-node/internal/domain/models"
)

// UserStore is the relational user capability the session manager depends
// on. Implementations are assumed strongly consistent.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// RecordFailedLogin increments accessFailedCount and, when lockOut is
	// set, flips isLockedOut in the same write.
	RecordFailedLogin(ctx context.Context, id uuid.UUID, lockOut bool) error
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	// RecordOTPSend bumps otpResendCount, marks otpSent and stamps
	// lastOTPResendDate.
	RecordOTPSend(ctx context.Context, id uuid.UUID, at time.Time) error
	// ReactivateAccount restores status and clears the lockout after a
	// password reset.
	ReactivateAccount(ctx context.Context, id uuid.UUID, at time.Time) error
}

// PasswordStore manages credential rows; at most one is active per user.
type PasswordStore interface {
	FindActive(ctx context.Context, userID uuid.UUID) (*models.Password, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	// Rotate deactivates every active row for the user and inserts the new
	// hash in one transaction.
	Rotate(ctx context.Context, userID uuid.UUID, hash string, expiry time.Time) error
	// DeactivateExpired sweeps rows whose expiry has passed, returning the
	// number deactivated.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// PreferencesStore returns a user's preferences, ErrNotFound when the user
// never saved any.
type PreferencesStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
}
