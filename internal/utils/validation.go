package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct validates a struct using validation tags
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// IsValidPhoneNumber checks if a string looks like a phone number
func IsValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

// IsValidOTP checks if a string is a 6-digit numeric code
func IsValidOTP(code string) bool {
	return otpPattern.MatchString(code)
}
