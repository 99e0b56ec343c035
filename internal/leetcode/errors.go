package leetcode

import (
	"errors"
	"fmt"
	"strings"
)

// UserNotFoundError indicates that the statistics API does not know the username.
type UserNotFoundError struct {
	Username string
	cause    error
}

func (e *UserNotFoundError) Error() string {
	if e == nil || e.Username == "" {
		return "user not found"
	}
	return fmt.Sprintf("user %q not found", e.Username)
}

func (e *UserNotFoundError) Unwrap() error { return e.cause }

func IsUserNotFound(err error) bool {
	var e *UserNotFoundError
	return errors.As(err, &e)
}

// StatusError is returned for any non-2xx answer of the statistics API.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("statistics API error (status %d) for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("statistics API error (status %d) for %s: %s", e.StatusCode, e.URL, body)
}

// apiError is an error reported inside a 200 response body.
type apiError struct {
	Message string `json:"message"`
}

func isUserMissingMessage(msg string) bool {
	// Observed from the API: "That user does not exist."
	m := strings.ToLower(msg)
	return strings.Contains(m, "does not exist") || strings.Contains(m, "user not found")
}
