package github

import (
	"errors"
	"fmt"
	"strings"
)

// UserNotFoundError indicates that the requested GitHub user does not exist.
// This is surfaced as a typed error so callers can adjust UX (e.g., avoid auth hints).
type UserNotFoundError struct {
	Login string
	cause error
}

func (e *UserNotFoundError) Error() string {
	if e == nil || e.Login == "" {
		return "user not found"
	}
	return fmt.Sprintf("user %q was not found on GitHub", e.Login)
}

func (e *UserNotFoundError) Unwrap() error { return e.cause }

func IsUserNotFound(err error) bool {
	var e *UserNotFoundError
	return errors.As(err, &e)
}

// AuthError means no usable GitHub credentials were found.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e == nil || e.Message == "" {
		return "GitHub authentication failed"
	}
	return "GitHub authentication failed: " + e.Message
}

func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

func isGraphQLUserNotFound(err error) bool {
	if err == nil {
		return false
	}
	// Observed from GitHub GraphQL:
	// "GraphQL: Could not resolve to a User with the login of 'xxx'. (user)"
	return strings.Contains(err.Error(), "Could not resolve to a User")
}
