// Package validation checks request schemas before any domain logic runs.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MsgFillAllFields is the summary message used when a required field is missing.
const MsgFillAllFields = "Please fill all fields"

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Violations maps a JSON field name to a human readable message.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsPhone(fl.Field().String())
		})
		_ = validate.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
			return FitsBcrypt(fl.Field().String())
		})
	})
	return validate
}

// IsPhone reports whether s is exactly ten digits.
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// FitsBcrypt reports whether password is short enough for bcrypt, counted in bytes.
func FitsBcrypt(password string) bool {
	return len(password) <= MaxPasswordBytes
}

// Struct validates s against its `validate` tags. It returns a summary
// message and the per-field violations; both are empty when s is valid.
func Struct(s any) (string, Violations) {
	err := instance().Struct(s)
	if err == nil {
		return "", nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error(), Violations{}
	}

	v := Violations{}
	summary := ""
	missing := false
	for _, fe := range fieldErrs {
		msg := message(fe)
		if _, seen := v[fe.Field()]; !seen {
			v[fe.Field()] = msg
		}
		if fe.Tag() == "required" {
			missing = true
		}
		if summary == "" {
			summary = msg
		}
	}
	if missing {
		summary = MsgFillAllFields
	}
	return summary, v
}

func message(fe validator.FieldError) string {
	switch fe.Field() + ":" + fe.Tag() {
	case "name:required":
		return "Please add a name"
	case "name:min":
		return "Name must be at least 2 characters long"
	case "phone:required":
		return "Phone number is required"
	case "phone:phone":
		return "Please enter a valid 10-digit phone number"
	case "password:required":
		return "Password is required"
	case "password:min":
		return "Password must be at least 6 characters long"
	case "password:bcryptlen":
		return "Password must be at most 72 bytes"
	case "confirmPassword:required":
		return "Please confirm your password"
	case "confirmPassword:eqfield":
		return "Passwords do not match"
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters long"
	}
	return fe.Field() + " is invalid"
}
