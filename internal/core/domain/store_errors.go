package domain

import (
	"errors"
	"fmt"
)

// StoreErrorKind classifies a failed write against the hosted data store.
// Classification is structural (derived from the store's SQLSTATE code), not
// substring matching on the message.
type StoreErrorKind string

const (
	StoreUniqueViolation     StoreErrorKind = "unique_violation"
	StoreNotNullViolation    StoreErrorKind = "not_null_violation"
	StoreForeignKeyViolation StoreErrorKind = "foreign_key_violation"
	StorePermissionDenied    StoreErrorKind = "permission_denied"
	StoreUnknown             StoreErrorKind = "unknown"
)

// StoreError is the typed error returned by the store-interaction layer so the
// provisioning coordinator can branch on the failure kind instead of parsing
// message text.
type StoreError struct {
	Kind    StoreErrorKind
	Column  string // best-effort; empty when the store does not report it
	Message string // raw store message, logged server-side only
}

func (e *StoreError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("store: %s on %q: %s", e.Kind, e.Column, e.Message)
	}
	return fmt.Sprintf("store: %s: %s", e.Kind, e.Message)
}

// AsStoreError unwraps err into a *StoreError when the store layer produced it.
func AsStoreError(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
