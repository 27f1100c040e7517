package model

import (
	"fmt"
	"strings"
)

// Standard error codes for inventory operations.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeDuplicateKey      = "DUPLICATE_KEY"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeMalformedRecord   = "MALFORMED_RECORD"
	ErrCodePersistence       = "PERSISTENCE_ERROR"
)

// DomainError is the base error returned by the record store and analytics engine.
// Two domain errors match under errors.Is when their codes are equal, so the
// sentinel values below can be used to test the kind of any returned error.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError of the same kind.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinel errors, one per kind.
var (
	ErrValidation        = NewDomainError(ErrCodeValidation, "product failed validation")
	ErrDuplicateKey      = NewDomainError(ErrCodeDuplicateKey, "product ID already exists")
	ErrNotFound          = NewDomainError(ErrCodeNotFound, "product not found")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "insufficient stock")
	ErrMalformedRecord   = NewDomainError(ErrCodeMalformedRecord, "malformed record")
	ErrPersistence       = NewDomainError(ErrCodePersistence, "persistence failure")
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

// DuplicateKeyError is returned when adding a product whose ID is taken.
type DuplicateKeyError struct {
	ProductID string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("product ID %q already exists", e.ProductID)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// NotFoundError is returned for an unknown product ID.
type NotFoundError struct {
	ProductID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.ProductID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError is returned when a quantity adjustment would go below zero.
type InsufficientStockError struct {
	ProductID string
	Current   int
	Delta     int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cannot reduce quantity of %q below 0 (current: %d, change: %d)",
		e.ProductID, e.Current, e.Delta)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// MalformedRecordError reports a backing-file row that could not be parsed.
// Line is 1-based and counts the header.
type MalformedRecordError struct {
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

// PersistenceError wraps a failure to read or write the backing file.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
