package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/model"
)

func TestIsPhone(t *testing.T) {
	assert.True(t, IsPhone("9876543210"))
	assert.False(t, IsPhone("987654321"))
	assert.False(t, IsPhone("98765432101"))
	assert.False(t, IsPhone("98765a3210"))
	assert.False(t, IsPhone("+987654321"))
	assert.False(t, IsPhone(""))
}

func TestStruct_ValidRegister(t *testing.T) {
	msg, v := Struct(model.RegisterRequest{
		Name:            "Asha",
		Phone:           "9876543210",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	assert.Empty(t, msg)
	assert.True(t, v.Empty())
}

func TestStruct_RegisterViolations(t *testing.T) {
	tests := []struct {
		name       string
		req        model.RegisterRequest
		wantMsg    string
		wantFields Violations
	}{
		{
			name:       "missing fields",
			req:        model.RegisterRequest{Name: "Asha"},
			wantMsg:    MsgFillAllFields,
			wantFields: Violations{"phone": "Phone number is required", "password": "Password is required", "confirmPassword": "Please confirm your password"},
		},
		{
			name:       "password mismatch",
			req:        model.RegisterRequest{Name: "Asha", Phone: "9876543210", Password: "secret1", ConfirmPassword: "secret2"},
			wantMsg:    "Passwords do not match",
			wantFields: Violations{"confirmPassword": "Passwords do not match"},
		},
		{
			name:       "short name",
			req:        model.RegisterRequest{Name: "A", Phone: "9876543210", Password: "secret1", ConfirmPassword: "secret1"},
			wantMsg:    "Name must be at least 2 characters long",
			wantFields: Violations{"name": "Name must be at least 2 characters long"},
		},
		{
			name:       "bad phone",
			req:        model.RegisterRequest{Name: "Asha", Phone: "12345", Password: "secret1", ConfirmPassword: "secret1"},
			wantMsg:    "Please enter a valid 10-digit phone number",
			wantFields: Violations{"phone": "Please enter a valid 10-digit phone number"},
		},
		{
			name:       "short password",
			req:        model.RegisterRequest{Name: "Asha", Phone: "9876543210", Password: "abc", ConfirmPassword: "abc"},
			wantMsg:    "Password must be at least 6 characters long",
			wantFields: Violations{"password": "Password must be at least 6 characters long"},
		},
		{
			name:       "password over bcrypt limit",
			req:        model.RegisterRequest{Name: "Asha", Phone: "9876543210", Password: strings.Repeat("a", 73), ConfirmPassword: strings.Repeat("a", 73)},
			wantMsg:    "Password must be at most 72 bytes",
			wantFields: Violations{"password": "Password must be at most 72 bytes"},
		},
		{
			// 24 three-byte runes: 24 characters but 72 bytes.
			name:       "multibyte password at bcrypt limit",
			req:        model.RegisterRequest{Name: "Asha", Phone: "9876543210", Password: strings.Repeat("€", 24), ConfirmPassword: strings.Repeat("€", 24)},
			wantMsg:    "",
			wantFields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, v := Struct(tt.req)
			assert.Equal(t, tt.wantMsg, msg)
			assert.Equal(t, tt.wantFields, v)
		})
	}
}

func TestFitsBcrypt(t *testing.T) {
	assert.True(t, FitsBcrypt(strings.Repeat("a", MaxPasswordBytes)))
	assert.False(t, FitsBcrypt(strings.Repeat("a", MaxPasswordBytes+1)))
	// 25 runes, 75 bytes.
	assert.False(t, FitsBcrypt(strings.Repeat("€", 25)))
}

func TestStruct_Login(t *testing.T) {
	msg, v := Struct(model.LoginRequest{Phone: "9876543210"})
	assert.Equal(t, MsgFillAllFields, msg)
	assert.Equal(t, Violations{"password": "Password is required"}, v)

	msg, v = Struct(model.LoginRequest{Phone: "9876543210", Password: "x"})
	assert.Empty(t, msg)
	assert.True(t, v.Empty())
}
