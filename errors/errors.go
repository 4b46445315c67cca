package errors

import (
	"fmt"
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the API error contract: a caller-safe message plus the HTTP
// status it should be surfaced with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrNotFound            = New("resource not found", http.StatusNotFound)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrForbidden           = New("insufficient permissions", http.StatusForbidden)
	ErrConflict            = New("conflicting resource state", http.StatusConflict)
	ErrInsufficientBalance = New("insufficient reward points for this operation", http.StatusBadRequest)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
)

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

// Newf formats into an Error the way fmt.Errorf would.
func Newf(status int, format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...), status)
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Is matches on message and status so sentinels above work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Message == t.Message && e.Status == t.Status
}

// FromError coerces any error into an *Error, defaulting to a 500 so
// internal details never leak into responses.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*Error); ok {
		return apiErr
	}
	return ErrInternalServerError
}

// GetUniqueConstraintError translates a database unique-violation into
// the public conflict error, keeping driver details out of responses.
func GetUniqueConstraintError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") {
		return New("a record with these details already exists", http.StatusConflict)
	}
	return ErrInternalServerError
}

// ErrorHandler is handed to the gin rate limiter for 429 responses.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": "too many requests, try again later",
		"errors":  []string{fmt.Sprintf("retry after %s", info.ResetTime.Format("15:04:05"))},
	})
	c.Abort()
}
