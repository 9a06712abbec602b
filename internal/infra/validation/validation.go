package validation

import (
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const minPasswordLen = 6

// New returns a validator with the "strongpwd" rule registered.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	return v
}

// StrongPassword requires at least six characters with a lowercase letter,
// an uppercase letter, a digit and a special character.
func StrongPassword(pwd string) bool {
	if utf8.RuneCountInString(pwd) < minPasswordLen {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pwd {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r):
			hasSpecial = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSpecial
}
