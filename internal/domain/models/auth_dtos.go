package models

// Request bodies for the auth endpoints. Validation runs through gin's
// binding layer; field names mirror the public API.

type LoginRequest struct {
	EmailAddress string `json:"emailAddress" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
}

type VerifyOTPRequest struct {
	UserID   string `json:"userId" binding:"required,uuid"`
	OTPValue string `json:"otpValue" binding:"required,len=6,numeric"`
}

type ResendOTPRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
}

type RefreshTokenRequest struct {
	UserID       string `json:"userId" binding:"required,uuid"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	UserID string `json:"userId"`
}

type ResetPasswordRequest struct {
	EmailAddress string `json:"emailAddress" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
}

type CreateEntryRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content" binding:"required"`
	EntryDate  string   `json:"entryDate"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
}
