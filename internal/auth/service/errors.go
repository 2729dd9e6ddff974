package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserAlreadyExists  = errors.New("user_already_exists")
	ErrEmailAlreadyExists = errors.New("email_already_exists")
	ErrInactiveUser       = errors.New("inactive_user")
	ErrInvalidRequest     = errors.New("invalid_request")
)

// ValidationError lists the rejected fields of a request. It matches
// ErrInvalidRequest with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }
