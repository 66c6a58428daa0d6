package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/learning-gap-service/internal/errors"
	"github.com/SAP-F-2025/learning-gap-service/internal/ingestion"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")

	// Dataset specific errors
	ErrDatasetNotFound   = errors.New("dataset not loaded")
	ErrStudentNotFound   = errors.New("student not found in dataset")
	ErrUnknownClassLevel = errors.New("class level could not be determined")
	ErrUnknownReportKind = errors.New("unknown report format")

	// Ingestion errors surface through the dataset service unchanged.
	ErrDatasetEmpty      = ingestion.ErrEmptyDataset
	ErrUnsupportedFormat = ingestion.ErrUnsupportedFormat
	ErrMissingColumns    = ingestion.ErrMissingColumns
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDatasetNotFound) ||
		errors.Is(err, ErrStudentNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrMissingColumns) ||
		errors.Is(err, ErrUnsupportedFormat) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}
