package auth

import "errors"

var (
	// ErrEmailTaken indicates the email is already registered
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates the email/password pair did not match.
	// A wrong password and an unknown email are deliberately the same error.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotVerified indicates the account has not verified its email
	ErrNotVerified = errors.New("email not verified")

	// ErrInvalidToken indicates a token that is malformed, expired, of the
	// wrong purpose, or issued before the last password change
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUserNotFound indicates no user matched
	ErrUserNotFound = errors.New("user not found")

	// ErrWeakPassword indicates the password fails the minimum length rule
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// IsEmailTaken checks if the error is an email taken error
func IsEmailTaken(err error) bool {
	return errors.Is(err, ErrEmailTaken)
}

// IsInvalidCredentials checks if the error is an invalid credentials error
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsNotVerified checks if the error is a not verified error
func IsNotVerified(err error) bool {
	return errors.Is(err, ErrNotVerified)
}

// IsInvalidToken checks if the error is an invalid token error
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

// IsUserNotFound checks if the error is a user not found error
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsWeakPassword checks if the error is a weak password error
func IsWeakPassword(err error) bool {
	return errors.Is(err, ErrWeakPassword)
}
