// Package common holds the error taxonomy shared by the store, the mail
// dispatcher, the signup pipeline and the HTTP handlers. Callers match these
// values with errors.Is / errors.As.
package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Client-fixable errors. No side effects have happened when these are returned.
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("email already registered")

	// ErrDelivery means the mail transport rejected or could not reach the message.
	ErrDelivery = errors.New("email delivery failed")

	// Store failures. Transient ones are safe to retry as a whole request.
	ErrTransientStore = errors.New("transient store error")
	ErrPermanentStore = errors.New("permanent store error")

	ErrUnauthorized = errors.New("unauthorized")
)

// FieldErrors maps a request field name (as it appears in JSON) to a
// human-readable message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (f FieldErrors) Unwrap() error { return ErrValidation }

// DeliveryError describes a failed email send. Stage is "verify" when the
// transport connectivity check failed, "render" when the template failed and
// "send" when the transport refused the message.
type DeliveryError struct {
	Kind      string
	Recipient string
	Stage     string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email delivery failed (%s, %s): %v", e.Kind, e.Stage, e.Err)
}

func (e *DeliveryError) Unwrap() []error { return []error{ErrDelivery, e.Err} }
