package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrIO ErrorType = iota
	ErrDescFormat
	ErrManifestFormat
	ErrMissingField
	ErrNotFound
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrIO:
		return "IO"
	case ErrDescFormat:
		return "DescFormat"
	case ErrManifestFormat:
		return "ManifestFormat"
	case ErrMissingField:
		return "MissingField"
	case ErrNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// StoreError represents an error while reading the local package store
type StoreError struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *StoreError) Unwrap() error {
	return e.Err
}
