package errors

import "fmt"

// Error codes
const (
	CodeCatalogError = "CATALOG_ERROR"
	CodeAPIError     = "API_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
	CodeScrape       = "SCRAPE_ERROR"
	CodeTranslate    = "TRANSLATE_ERROR"
	CodeImport       = "IMPORT_ERROR"
)

type CatalogError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

func NewCatalogError(message, code string, statusCode int, context map[string]any) *CatalogError {
	return &CatalogError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *CatalogError) WithCause(cause error) *CatalogError {
	e.Cause = cause
	return e
}

type APIError struct {
	*CatalogError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

type ValidationError struct {
	*CatalogError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type ScrapeError struct {
	*CatalogError
	TargetURL string
}

func NewScrapeError(message, targetURL string, cause error) *ScrapeError {
	return &ScrapeError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeScrape,
			StatusCode: 502,
			Context: map[string]any{
				"target_url": targetURL,
			},
			Cause: cause,
		},
		TargetURL: targetURL,
	}
}

type TranslateError struct {
	*CatalogError
	TextCount int
}

func NewTranslateError(message string, textCount int, cause error) *TranslateError {
	return &TranslateError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeTranslate,
			StatusCode: 502,
			Context: map[string]any{
				"text_count": textCount,
			},
			Cause: cause,
		},
		TextCount: textCount,
	}
}

type ImportError struct {
	*CatalogError
	Item string
}

func NewImportError(message, item string, cause error) *ImportError {
	return &ImportError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeImport,
			StatusCode: 500,
			Context: map[string]any{
				"item": item,
			},
			Cause: cause,
		},
		Item: item,
	}
}
