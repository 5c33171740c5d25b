package domain

import "errors"

// Common domain errors
var (
	// ErrAuthenticationFailed is returned for a bad identity or password.
	// Unknown users and wrong passwords are not distinguished.
	ErrAuthenticationFailed = errors.New("invalid username or password")
	// ErrNotAuthenticated is returned when a protected operation has no
	// authenticated user.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidAmount is returned for a non-positive or unparsable amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds is returned when an amount exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = errors.New("user not found")
)
