package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures by how the caller should react to them.
type ErrorKind int

const (
	// KindConfiguration is a missing or invalid forum channel or setting.
	// Fatal at startup.
	KindConfiguration ErrorKind = iota + 1
	// KindNotFound means a thread or channel no longer exists. Recoverable.
	KindNotFound
	// KindDelivery means a message could not be posted or DM'd. Reported to
	// the opposite party, never retried.
	KindDelivery
	// KindRecovery means the forum or thread listing was unreachable.
	KindRecovery
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNotFound:
		return "not found"
	case KindDelivery:
		return "delivery failure"
	case KindRecovery:
		return "recovery failure"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Callers can use errors.As to extract it:
//
//	var domainErr *domain.Error
//	if errors.As(err, &domainErr) && domainErr.Kind == domain.KindNotFound { ... }
type Error struct {
	Kind ErrorKind
	// Op names the operation that failed, e.g. "create thread".
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind == kind
	}
	return false
}

// ConfigurationError returns a KindConfiguration error for op.
func ConfigurationError(op string, err error) error {
	return &Error{Kind: KindConfiguration, Op: op, Err: err}
}

// NotFoundError returns a KindNotFound error for op.
func NotFoundError(op string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

// DeliveryError returns a KindDelivery error for op.
func DeliveryError(op string, err error) error {
	return &Error{Kind: KindDelivery, Op: op, Err: err}
}

// RecoveryError returns a KindRecovery error for op.
func RecoveryError(op string, err error) error {
	return &Error{Kind: KindRecovery, Op: op, Err: err}
}

// Classify tags err with kind unless it already carries a kind, in which case
// op is added as context and the original kind is kept.
func Classify(kind ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
