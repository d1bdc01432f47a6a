// Package domain defines domain-level errors for the users feature.
package domain

import "errors"

// These errors are shared by every feature that reads or mutates user records.
var (
	// ErrUserNotFound indicates that no user was found with the given criteria.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when registering an email that is already taken.
	ErrEmailAlreadyExists = errors.New("user already exists")

	// ErrAlreadyUpgraded is returned when a premium upgrade cannot be applied
	// because the user or the transaction id has already been used.
	ErrAlreadyUpgraded = errors.New("premium upgrade already applied")
)
