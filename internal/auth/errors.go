package auth

import "errors"

// Error taxonomy. Callers attach detail with errors.Wrapf; classification uses errors.Is.
var (
	// ErrConflict is returned on a uniqueness or referential integrity violation,
	// e.g. a duplicate role key or deleting a role that is still assigned.
	ErrConflict = errors.New("conflict")

	// ErrNotFound is returned when a referenced role, permission, user or layout does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed input, e.g. an empty permission id set.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated is returned when a protected operation is invoked without a principal.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the principal lacks the permission an operation requires.
	ErrForbidden = errors.New("forbidden")
)

var (
	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserNameOrEmailExists is returned when attempting to create a user with a username or email that already exists.
	ErrUserNameOrEmailExists = errors.New("user with username or email already exists")

	// ErrUnknownOperation is returned by Policy.Validate for bindings without a requirement.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrUnknownPermission is returned by Policy.Validate for keys missing from the catalog.
	ErrUnknownPermission = errors.New("unknown permission key")
)
