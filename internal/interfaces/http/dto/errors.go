package dto

import (
	"net/http"
	"strings"
)

// Error codes returned to clients. Format: ERR_<DESCRIPTION>
const (
	ErrCodeInternal           = "ERR_INTERNAL"
	ErrCodeBadRequest         = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput       = "ERR_INVALID_INPUT"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeSessionInvalid     = "ERR_SESSION_INVALID"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists      = "ERR_ALREADY_EXISTS"
	ErrCodeUpstream           = "ERR_UPSTREAM"
	ErrCodeUnavailable        = "ERR_UNAVAILABLE"
	ErrCodeRateLimited        = "ERR_RATE_LIMITED"
	ErrCodeRequestTooLarge    = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeSessionInvalid:     http.StatusUnauthorized,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeAlreadyExists:      http.StatusConflict,
	ErrCodeUpstream:           http.StatusBadGateway,
	ErrCodeUnavailable:        http.StatusServiceUnavailable,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeRequestTooLarge:    http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to client error codes.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"ALREADY_EXISTS":      ErrCodeAlreadyExists,
	"INVALID_INPUT":       ErrCodeInvalidInput,
	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"INVALID_CREDENTIALS": ErrCodeInvalidCredentials,
	"SESSION_INVALID":     ErrCodeSessionInvalid,
	"UPSTREAM_ERROR":      ErrCodeUpstream,
	"UNAVAILABLE":         ErrCodeUnavailable,
}

// NormalizeErrorCode converts a domain error code to its client form.
// Any other INVALID_* code (INVALID_ORDER, INVALID_PRICE, ...) is a
// validation failure and maps to ERR_INVALID_INPUT. Unknown codes become
// ERR_INTERNAL.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	return ErrCodeInternal
}
