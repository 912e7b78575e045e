package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewMissingField reports a required field absent from the payload.
func NewMissingField(field string) error {
	return NewDomainError("MISSING_FIELD", fmt.Sprintf("%s is required", field), http.StatusBadRequest, map[string]any{"field": field})
}

// NewInvalidLocation reports out-of-range coordinates.
func NewInvalidLocation(latitude, longitude float64) error {
	return NewDomainError("INVALID_LOCATION", "latitude must be within [-90,90] and longitude within [-180,180]", http.StatusBadRequest, map[string]any{
		"latitude":  latitude,
		"longitude": longitude,
	})
}

// NewInvalidCategory reports a category outside the closed enumeration.
func NewInvalidCategory(category string) error {
	return NewDomainError("INVALID_CATEGORY", fmt.Sprintf("unknown category %q", category), http.StatusBadRequest, map[string]any{"category": category})
}

// NewInvalidAttachmentType reports a filename whose extension is not
// allow-listed for the declared media kind.
func NewInvalidAttachmentType(kind, filename string) error {
	return NewDomainError("INVALID_ATTACHMENT_TYPE", fmt.Sprintf("%s attachment has an unsupported file type", kind), http.StatusBadRequest, map[string]any{
		"kind":     kind,
		"filename": filename,
	})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthenticated(message string) error {
	return NewDomainError("UNAUTHENTICATED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewStorageFailure wraps a blob-store I/O failure.
func NewStorageFailure(kind string, err error) error {
	return &DomainError{
		Code:       "STORAGE_FAILURE",
		Message:    fmt.Sprintf("failed to persist %s attachment", kind),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"kind": kind},
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// CodeOf returns the error code, or empty string for nil.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Code
}
