package crmfilter

import "github.com/kailas-cloud/crmfilter/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrInvalidTemplate = domain.ErrInvalidTemplate
	ErrMissingTenant   = domain.ErrMissingTenant
	ErrWrongMode       = domain.ErrWrongMode
	ErrNoQuerySelected = domain.ErrNoQuerySelected
)

// InvalidTemplateError names the saved query and field that failed to resolve.
// Use errors.As() to extract it.
type InvalidTemplateError = domain.InvalidTemplateError
