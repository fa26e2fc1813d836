package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Public profile slug: lowercase alphanumerics only, no separators
	usernameRegex = regexp.MustCompile(`^[a-z0-9]+$`)

	// E164-like phone: optional +, digits 7-15 length
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("username_slug", UsernameSlug)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
}

// UsernameSlug validates the public lookup key format. The client is
// expected to normalize input, but the server never trusts it.
func UsernameSlug(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return usernameRegex.MatchString(val)
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}
