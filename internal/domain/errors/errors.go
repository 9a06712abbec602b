package errors

import (
	"errors"
	"fmt"
)

var (
	ErrConfig             = errors.New("configuration error")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInternal           = errors.New("internal error")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
)

// detailed carries a human-readable message while still matching its sentinel
// through errors.Is.
type detailed struct {
	kind error
	msg  string
}

func (d *detailed) Error() string { return d.msg }

func (d *detailed) Unwrap() error { return d.kind }

func NewInvalidArgument(msg string) error {
	return &detailed{kind: ErrInvalidArgument, msg: msg}
}

func NewAlreadyExists(msg string) error {
	return &detailed{kind: ErrAlreadyExists, msg: msg}
}

func NewNotFound(msg string) error {
	return &detailed{kind: ErrNotFound, msg: msg}
}

func NewConfig(msg string) error {
	return fmt.Errorf("%w: %s", ErrConfig, msg)
}

func WrapInternal(err error, context string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, context, err)
}

func IsConfig(err error) bool {
	return errors.Is(err, ErrConfig)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
