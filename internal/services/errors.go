package services

import (
	"errors"
	"fmt"
)

// NotFoundError signals that a key-based lookup found no row.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// ConflictError signals a duplicate primary key or unique value on create.
type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %s already exists", e.Entity, e.Field, e.Value)
}

// InvalidReferenceError signals a foreign key that does not resolve to an
// existing row. Field names the offending reference.
type InvalidReferenceError struct {
	Field string
	ID    uint
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("referenced %s %d does not exist", e.Field, e.ID)
}

// ValidationError signals a field value that violates a model invariant,
// such as a negative price.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InUseError signals that a reference row cannot be deleted because books
// still point at it.
type InUseError struct {
	Entity string
	ID     uint
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s %d is still referenced by books", e.Entity, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// IsInvalidReference reports whether err is an InvalidReferenceError.
func IsInvalidReference(err error) bool {
	var invalid *InvalidReferenceError
	return errors.As(err, &invalid)
}
