package http

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ResponseError is the error body every endpoint returns.
type ResponseError struct {
	Message string `json:"message"`
}

// RespondWithError sends an error response and logs it.
func RespondWithError(c *gin.Context, statusCode int, message string, logger *zap.Logger) {
	logger.Warn("API error response",
		zap.Int("status_code", statusCode),
		zap.String("error_message", message),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)

	c.JSON(statusCode, ResponseError{Message: message})
}

// RespondWithData sends a success response with just data.
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// RespondWithMessage sends a success response with just a message.
func RespondWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// bindingErrorMessage flattens gin binding failures into one readable
// message, preferring per-field validator output when available.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "email":
			return fe.Field() + " must be a valid email address"
		case "min":
			return fe.Field() + " must be at least " + fe.Param() + " characters"
		case "len":
			return fe.Field() + " must be exactly " + fe.Param() + " characters"
		case "uuid":
			return fe.Field() + " must be a valid UUID"
		case "numeric":
			return fe.Field() + " must be numeric"
		default:
			return fe.Field() + " is invalid"
		}
	}
	return "Invalid request payload"
}
