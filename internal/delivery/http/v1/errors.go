package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/taskboard/internal/services"
)

var (
	errInvalidRequestBody      = errors.New("invalid request body")
	errMandatoryCookieNotFound = errors.New("authentication required")
	errInvalidDeadline         = errors.New("deadline must be a date or an RFC 3339 timestamp")
)

// envelope is the body of every response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Task    any    `json:"task,omitempty"`
}

type apiError struct {
	Code    int
	Message string
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, envelope{
		Success: false,
		Message: err.Message,
	})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// newServiceError maps a service error onto a status code. Errors outside
// the known taxonomy never leak their text to the client.
func newServiceError(err error) apiError {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority):
		return newBadRequestError(err.Error())
	case errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrTokenRevoked):
		return newUnauthorizedError(services.ErrInvalidToken.Error())
	case errors.Is(err, services.ErrUserPasswordMismatch):
		return newUnauthorizedError("Invalid email or password.")
	case errors.Is(err, services.ErrTaskOwnerMismatch):
		return newAPIError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrVerificationCodeInvalid):
		return newNotFoundError(err.Error())
	case errors.Is(err, services.ErrUserAlreadyExists),
		errors.Is(err, services.ErrTaskAlreadyExists):
		return newConflictError(err.Error())
	case errors.Is(err, services.ErrSigningKeyNotConfigured),
		errors.Is(err, services.ErrDatabaseNotConfigured):
		return newAPIError(http.StatusInternalServerError, err.Error())
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}

// newBindError describes the first failed validation rule of a request
// body, using the json field names.
func newBindError(err error) apiError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return newBadRequestError(errInvalidRequestBody.Error())
	}

	fe := validationErrs[0]
	switch fe.Tag() {
	case "required":
		return newBadRequestError(fmt.Sprintf("%s is required", fe.Field()))
	case "email":
		return newBadRequestError(fmt.Sprintf("%s must be a valid email address", fe.Field()))
	default:
		return newBadRequestError(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
