// Package apperr defines the coded error taxonomy shared by the service,
// middleware and handler layers.
package apperr

import (
	"log/slog"
	"net/http"

	"github.com/samber/oops"
)

// Error codes.
const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeDuplicateUser      = "DUPLICATE_USER"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeNotFound           = "NOT_FOUND"
	CodeStorage            = "STORAGE_FAILURE"
	CodeUnexpected         = "UNEXPECTED"
)

const fieldsKey = "fields"

var statusByCode = map[string]int{
	CodeValidation:         http.StatusBadRequest,
	CodeDuplicateUser:      http.StatusBadRequest,
	CodeInvalidCredentials: http.StatusBadRequest,
	CodeUnauthenticated:    http.StatusUnauthorized,
	CodeNotFound:           http.StatusNotFound,
	CodeStorage:            http.StatusInternalServerError,
	CodeUnexpected:         http.StatusInternalServerError,
}

var messageByCode = map[string]string{
	CodeDuplicateUser:      "User already exists",
	CodeInvalidCredentials: "Invalid credentials",
	CodeUnauthenticated:    "Not authorized",
	CodeNotFound:           "User not found",
	CodeStorage:            "Internal server error",
	CodeUnexpected:         "Internal server error",
}

// Validation builds a VALIDATION_FAILED error. msg is shown to the client
// as is; fields maps request field names to per-field messages.
func Validation(msg string, fields map[string]string) error {
	b := oops.Code(CodeValidation)
	if len(fields) > 0 {
		b = b.With(fieldsKey, fields)
	}
	return b.Errorf("%s", msg)
}

// DuplicateUser reports a contact identifier collision.
func DuplicateUser() error {
	return oops.Code(CodeDuplicateUser).Errorf("user already exists")
}

// InvalidCredentials is used for both unknown phone and wrong password.
func InvalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf("invalid credentials")
}

// Unauthenticated wraps the token failure reason, which stays server side.
func Unauthenticated(reason error) error {
	if reason == nil {
		return oops.Code(CodeUnauthenticated).Errorf("not authorized")
	}
	return oops.Code(CodeUnauthenticated).Wrapf(reason, "not authorized")
}

// NotFound reports a verified identity without a backing record.
func NotFound(userID string) error {
	return oops.Code(CodeNotFound).With("user_id", userID).Errorf("user not found")
}

// Storage wraps an unexpected persistence failure.
func Storage(err error, op string) error {
	return oops.Code(CodeStorage).With("op", op).Wrapf(err, "%s", op)
}

// CodeOf returns the error code carried by err, or CodeUnexpected.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return CodeUnexpected
	}
	code, _ := any(oopsErr.Code()).(string)
	if _, known := statusByCode[code]; !known {
		return CodeUnexpected
	}
	return code
}

// HTTPStatus maps err to a response status.
func HTTPStatus(err error) int {
	return statusByCode[CodeOf(err)]
}

// PublicMessage returns the message that may be shown to the client.
// Internal detail is never included.
func PublicMessage(err error) string {
	code := CodeOf(err)
	if code == CodeValidation {
		if oopsErr, ok := oops.AsOops(err); ok {
			return oopsErr.Error()
		}
	}
	return messageByCode[code]
}

// Fields returns per-field validation messages, if any.
func Fields(err error) map[string]string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}
	fields, _ := oopsErr.Context()[fieldsKey].(map[string]string)
	return fields
}

// LogError logs err with its code and context when it is an oops error.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{"error", oopsErr.Error(), "code", CodeOf(err)}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
		return
	}
	logger.Error(msg, "error", err)
}
