// Package shared holds cross-cutting helpers and the error kinds exchanged
// between the domain modules and the HTTP layer.
package shared

import (
	"errors"
	"fmt"
)

// ErrCustomerNeeded indicates an attempt to record a credit sale without a
// customer to owe it.
var ErrCustomerNeeded = errors.New("a credit sale cannot be recorded without a customer")

// ValidationError reports a field-level rule violation. It is recoverable by
// the caller and never treated as fatal.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError signals a lookup of a record that does not exist. Callers can
// tell "does not exist" apart from "exists with default values".
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find %s %d", e.Kind, e.ID)
}

// InvoiceConflictError surfaces from the storage boundary when an invoice
// number is already in use by another sale.
type InvoiceConflictError struct {
	InvoiceNumber int
	SaleID        int64
}

func (e *InvoiceConflictError) Error() string {
	return fmt.Sprintf("invoice number %d is already in use by sale %d", e.InvoiceNumber, e.SaleID)
}

// ReferencedError signals a delete blocked by records that still reference the
// target, such as a customer with outstanding receivables.
type ReferencedError struct {
	Kind string
	ID   int64
}

func (e *ReferencedError) Error() string {
	return fmt.Sprintf("%s %d is still referenced and cannot be deleted", e.Kind, e.ID)
}
