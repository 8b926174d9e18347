package errors

import "errors"

var (
	// Generic errors.
	ErrInternal       = errors.New("internal server error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")

	// Authentication errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrUserLockedOut      = errors.New("account locked")
	ErrPasswordExpired    = errors.New("password expired")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")

	// Session errors.
	ErrSessionNotFound = errors.New("no active session")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidSession  = errors.New("invalid session")

	// OTP errors.
	ErrOTPAlreadyUsed    = errors.New("otp already used")
	ErrOTPExpired        = errors.New("otp expired")
	ErrInvalidOTP        = errors.New("invalid otp")
	ErrRateLimitExceeded = errors.New("too many otp requests")
	ErrMissingUserID     = errors.New("userId is required")
)

// IsNotFound reports whether err maps to a 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsUnauthorized reports whether err maps to a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUserLockedOut) ||
		errors.Is(err, ErrPasswordExpired) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrInvalidSession) ||
		errors.Is(err, ErrInvalidToken)
}

// IsConflict reports whether err maps to a 409.
func IsConflict(err error) bool {
	return errors.Is(err, ErrOTPAlreadyUsed) || errors.Is(err, ErrOTPExpired)
}
