package apperr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), CodeUnexpected},
		{"validation", Validation("Please fill all fields", nil), CodeValidation},
		{"duplicate", DuplicateUser(), CodeDuplicateUser},
		{"credentials", InvalidCredentials(), CodeInvalidCredentials},
		{"unauthenticated", Unauthenticated(errors.New("expired")), CodeUnauthenticated},
		{"not found", NotFound("abc"), CodeNotFound},
		{"storage", Storage(errors.New("conn reset"), "find user"), CodeStorage},
		{"wrapped by fmt", fmt.Errorf("outer: %w", DuplicateUser()), CodeDuplicateUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("x", nil)))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(DuplicateUser()))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidCredentials()))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthenticated(nil)))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("id")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Storage(errors.New("x"), "op")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("x")))
}

func TestPublicMessage_HidesInternalDetail(t *testing.T) {
	err := Storage(errors.New("dial tcp 10.0.0.3:27017: connection refused"), "find user by phone")
	assert.Equal(t, "Internal server error", PublicMessage(err))

	err = Unauthenticated(errors.New("token is expired"))
	assert.Equal(t, "Not authorized", PublicMessage(err))

	assert.Equal(t, "Internal server error", PublicMessage(errors.New("secret stuff")))
}

func TestPublicMessage_Validation(t *testing.T) {
	err := Validation("Passwords do not match", map[string]string{"confirmPassword": "Passwords do not match"})
	assert.Equal(t, "Passwords do not match", PublicMessage(err))
	assert.Equal(t, map[string]string{"confirmPassword": "Passwords do not match"}, Fields(err))
}

func TestFields_None(t *testing.T) {
	assert.Nil(t, Fields(DuplicateUser()))
	assert.Nil(t, Fields(errors.New("plain")))
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	LogError(logger, "register failed", Storage(errors.New("write conflict"), "create user"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "register failed", entry["msg"])
	assert.Equal(t, CodeStorage, entry["code"])
	assert.Contains(t, entry["error"], "write conflict")
}

func TestLogError_PlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	LogError(logger, "failed", errors.New("standard error"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "standard error", entry["error"])
}
