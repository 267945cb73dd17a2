package service

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes a domain error so callers can disambiguate
// authorization failures from not-found from unmet state preconditions.
type ErrorKind int

const (
	// KindInternal is an unexpected failure, surfaced generically
	KindInternal ErrorKind = iota
	// KindValidation is a missing or malformed input
	KindValidation
	// KindNotFound means the parcel or profile is absent
	KindNotFound
	// KindForbidden is a role or ownership mismatch, or an unapproved partner
	KindForbidden
	// KindConflict is a duplicate claim, already-verified OTP or duplicate unique field
	KindConflict
	// KindPrecondition means a status, payment or OTP gate is not satisfied
	KindPrecondition
	// KindExpired means the OTP is past its validity window
	KindExpired
	// KindNotification means email dispatch failed
	KindNotification
)

// Error is a categorized domain error. Field and Value are set on
// uniqueness conflicts so the offending input can be reported.
type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Value   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a domain error, or KindInternal for
// anything else
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the message of a domain error, or empty for
// anything else
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

func notFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func conflictField(field, value, message string) *Error {
	return &Error{Kind: KindConflict, Message: message, Field: field, Value: value}
}

func precondition(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

func expired(format string, args ...interface{}) *Error {
	return &Error{Kind: KindExpired, Message: fmt.Sprintf(format, args...)}
}

func validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notification(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotification, Message: fmt.Sprintf(format, args...), Err: err}
}

func internal(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}
