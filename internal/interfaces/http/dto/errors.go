package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	// ErrCodeInvalidReference is used when a referenced material, place or employee does not exist
	ErrCodeInvalidReference = "ERR_INVALID_REFERENCE"
	ErrCodeRequestTooLarge  = "ERR_REQUEST_TOO_LARGE"
)

// Admin key error codes
const (
	ErrCodeAdminKeyRequired = "ERR_ADMIN_KEY_REQUIRED"
	ErrCodeAdminKeyInvalid  = "ERR_ADMIN_KEY_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInUse               = "ERR_IN_USE"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
)

// Availability error codes
const (
	ErrCodeStorageDisabled = "ERR_STORAGE_DISABLED"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeInvalidReference: http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,

	// Admin key
	ErrCodeAdminKeyRequired: http.StatusUnauthorized,
	ErrCodeAdminKeyInvalid:  http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInUse:               http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,

	ErrCodeStorageDisabled: http.StatusServiceUnavailable,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes.
// Domain codes that are not listed become ERR_BUSINESS_RULE.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"UNKNOWN_DATASET":      ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INVALID_TRANSITION":   ErrCodeInvalidTransition,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"IN_USE":               ErrCodeInUse,
	"ADMIN_KEY_REQUIRED":   ErrCodeAdminKeyRequired,
	"ADMIN_KEY_INVALID":    ErrCodeAdminKeyInvalid,
	"STORAGE_DISABLED":     ErrCodeStorageDisabled,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,

	// field level rule violations raised by the domain
	"INVALID_CODE":       ErrCodeValidation,
	"INVALID_NAME":       ErrCodeValidation,
	"INVALID_UNIT":       ErrCodeValidation,
	"INVALID_TYPE":       ErrCodeValidation,
	"INVALID_KIND":       ErrCodeValidation,
	"INVALID_QUANTITY":   ErrCodeValidation,
	"INVALID_REASON":     ErrCodeValidation,
	"INVALID_DATE":       ErrCodeValidation,
	"INVALID_DATE_RANGE": ErrCodeValidation,
	"INVALID_MATERIAL":   ErrCodeInvalidReference,
	"INVALID_PLACE":      ErrCodeInvalidReference,
	"INVALID_LABELER":    ErrCodeInvalidReference,
	"INVALID_REQUESTER":  ErrCodeInvalidReference,
	"INVALID_ACTOR":      ErrCodeInvalidReference,
}

// NormalizeErrorCode converts a domain error code to the ERR_ format.
// Codes already in that format pass through.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	return ErrCodeBusinessRule
}
