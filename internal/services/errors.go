package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Login for a bad username/password pair
var ErrInvalidCredentials = errors.New("invalid username or password")

// FieldError is a single violated field constraint
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated constraint of a submission. Checks
// never short-circuit on the first bad field, so callers can redisplay a
// form with all errors at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PermissionError means the actor failed the ownership/moderation guard
type PermissionError struct {
	Op string
}

func (e *PermissionError) Error() string {
	if e.Op != "" {
		return "permission denied: " + e.Op
	}
	return "permission denied"
}

// NotFoundError means a referenced entity id did not resolve
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError means a uniqueness or state constraint was violated
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// wrapNotFound converts gorm's record-not-found into the domain error
func wrapNotFound(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}
