package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when an entity does not exist or is owned by
// another user. Callers must not be able to tell the two apart.
var ErrNotFound = errors.New("record not found")

// FieldError is one violated constraint on a named attribute. Field uses the
// external hyphenated name.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects model-level constraint violations.
type ValidationErrors []FieldError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return strings.Join(parts, "; ")
}

// Store is the ownership-scoped repository. Every read and write predicate
// includes the owning user id; no code path fetches a foreign entity by
// primary key alone.
type Store struct {
	db *gorm.DB
}

// New creates a Store over an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
