package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing entity schema or saved query.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTemplate signals a saved query that cannot be resolved against its entity schema.
	ErrInvalidTemplate = errors.New("invalid saved query template")
	// ErrMissingTenant signals a request context without a tenant (account) id.
	ErrMissingTenant = errors.New("missing tenant context")
	// ErrUnauthorized signals an unknown or missing API key.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrWrongMode signals a panel action that does not belong to the active search mode.
	ErrWrongMode = errors.New("action not available in current search mode")
	// ErrNoQuerySelected signals an advanced search without a selected saved query.
	ErrNoQuerySelected = errors.New("no saved query selected")
)

// InvalidTemplateError wraps ErrInvalidTemplate with the offending query and field.
type InvalidTemplateError struct {
	QueryID string
	Field   string
	Err     error
}

func (e *InvalidTemplateError) Error() string {
	msg := fmt.Sprintf("%s: query %q", ErrInvalidTemplate.Error(), e.QueryID)
	if e.Field != "" {
		msg += fmt.Sprintf(", field %q", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *InvalidTemplateError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidTemplate}
	}
	return []error{ErrInvalidTemplate, e.Err}
}

// NewInvalidTemplate creates an invalid template error.
func NewInvalidTemplate(queryID, fieldName string, cause error) error {
	return &InvalidTemplateError{QueryID: queryID, Field: fieldName, Err: cause}
}
