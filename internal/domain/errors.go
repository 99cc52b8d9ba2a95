package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")

	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrInvalidPreferences   = errors.New("invalid preferences")
	ErrInvalidInput         = errors.New("invalid input")

	ErrCannotLikeSelf = errors.New("cannot like yourself")
	ErrLikeWrite      = errors.New("like write failed")
	ErrMatchCheck     = errors.New("match check failed")
	ErrMatchNotFound  = errors.New("match not found")

	ErrRateLimited = errors.New("rate limited")

	// ErrDataStore covers collaborator I/O failures that have no more
	// specific kind.
	ErrDataStore = errors.New("data store error")
)

// Wrap tags cause with an error kind. Both stay reachable through errors.Is.
func Wrap(kind error, op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", kind, op, cause)
}
