package domain

import (
	"errors"
	"fmt"
)

// Error kinds exposed to callers of the service layer.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("validation failed")
)

// Storage-level conditions reported by repositories.
var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrForeignKey   = errors.New("foreign key violation")
)

// Error carries an error kind plus the entity/field it concerns.
type Error struct {
	Kind   error
	Entity string
	Field  string
	Msg    string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	switch {
	case e.Entity != "" && e.Field != "":
		return fmt.Sprintf("%s %s: %v", e.Entity, e.Field, e.Kind)
	case e.Entity != "":
		return fmt.Sprintf("%s %v", e.Entity, e.Kind)
	case e.Field != "":
		return fmt.Sprintf("%s: %v", e.Field, e.Kind)
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(entity string) error {
	return &Error{Kind: ErrNotFound, Entity: entity}
}

func Conflict(entity, field string) error {
	return &Error{Kind: ErrConflict, Entity: entity, Field: field, Msg: fmt.Sprintf("%s already registered", field)}
}

func Invalid(field, msg string) error {
	return &Error{Kind: ErrValidation, Field: field, Msg: fmt.Sprintf("%s: %s", field, msg)}
}
