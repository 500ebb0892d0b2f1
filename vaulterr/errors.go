// Package vaulterr defines the closed set of failure reasons the vault
// datastore can produce, wrapped in a single error carrier type.
package vaulterr

import "fmt"

// Reason is a machine-readable classification of a vault error.
type Reason string

const (
	// ReasonLocked means the operation requires the datastore to be unlocked.
	ReasonLocked Reason = "LOCKED"
	// ReasonInitialized means Initialize was called on an already-initialized
	// datastore without Rebase set.
	ReasonInitialized Reason = "INITIALIZED"
	// ReasonCrypto means an authenticated-decryption or wrap operation failed.
	ReasonCrypto Reason = "CRYPTO"
	// ReasonMissing means a record id was not found.
	ReasonMissing Reason = "MISSING"
	// ReasonInvalid means the caller supplied a malformed record.
	ReasonInvalid Reason = "INVALID"
	// ReasonMissingAppKey means no application key could be resolved.
	ReasonMissingAppKey Reason = "MISSING_APP_KEY"
	// ReasonStore means the backing store returned an I/O failure.
	ReasonStore Reason = "STORE"
)

// Error is the single error carrier returned by every vault operation that
// fails with a recognized condition. Unrecognized failures (e.g. an
// out-of-memory panic recovered elsewhere) are never wrapped in an Error;
// callers use errors.As to distinguish the two.
type Error struct {
	Reason  Reason
	Message string
	cause   error
}

// New builds an Error with the given reason and message.
func New(reason Reason, message string) *Error {
	return &Error{Reason: reason, Message: message}
}

// Wrap builds an Error with the given reason and message, recording cause
// as the wrapped error so errors.Unwrap/errors.Is can see through it.
func Wrap(reason Reason, message string, cause error) *Error {
	return &Error{Reason: reason, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Reason, so callers
// can write errors.Is(err, vaulterr.New(vaulterr.ReasonLocked, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

// Of reports the Reason carried by err, if err is (or wraps) an *Error.
func Of(err error) (Reason, bool) {
	var ve *Error
	if ok := asError(err, &ve); ok {
		return ve.Reason, true
	}
	return "", false
}

func asError(err error, target **Error) bool {
	for err != nil {
		if ve, ok := err.(*Error); ok {
			*target = ve
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
