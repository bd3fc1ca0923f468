package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing row. ID is zero for collection lookups.
// Message, when set, replaces the default "<Entity> not found" text.
type NotFoundError struct {
	Entity  string
	ID      int
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Entity == "" {
		return "Not found"
	}
	return strings.ToUpper(e.Entity[:1]) + e.Entity[1:] + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// wrap annotates err with the failing operation, keeping it matchable.
func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
