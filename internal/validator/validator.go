package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidMonth    = errors.New("invalid month, expected YYYY-MM")
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3,10}$`)
	monthRegex    = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

// ValidateCurrency accepts uppercase codes up to ten characters so that
// crypto tickers pass alongside ISO 4217 codes.
func ValidateCurrency(currency string) error {
	if !currencyRegex.MatchString(currency) {
		return ErrInvalidCurrency
	}
	return nil
}

func ValidateName(name string) error {
	if len(name) == 0 || len(name) > 100 {
		return ErrInvalidName
	}
	return nil
}

func ValidateMonth(month string) error {
	if !monthRegex.MatchString(month) {
		return ErrInvalidMonth
	}
	return nil
}
