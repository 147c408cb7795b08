// Package service holds the business rules behind the HTTP handlers. Each
// service works on an explicit *gorm.DB so tests can run against SQLite.
package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrTwoFactorRequired = errors.New("two-factor code required")
	ErrInvalidResetToken = errors.New("reset token is invalid or expired")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrNotConfigured     = errors.New("feature not configured")
)

// notFound turns gorm's not-found into ErrNotFound and passes other errors through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return wrap(ErrNotFound, what+" not found")
	}
	return err
}

type wrappedError struct {
	sentinel error
	msg      string
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.sentinel }

// wrap keeps the sentinel for errors.Is while giving the caller a readable message.
func wrap(sentinel error, msg string) error {
	return &wrappedError{sentinel: sentinel, msg: msg}
}
