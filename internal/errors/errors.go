package errors

import (
	"errors"
	"fmt"
)

// Kind separates failures by the external system that produced them
type Kind string

const (
	// KindProvider marks source-control (GitHub) API failures
	KindProvider Kind = "provider"
	// KindPlatform marks chat platform (Discord) API failures
	KindPlatform Kind = "platform"
	// KindConfig marks startup configuration failures
	KindConfig Kind = "config"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeRateLimited  ErrorCode = "RATE_LIMITED"
	ErrCodeNetwork      ErrorCode = "NETWORK"
	ErrCodeValidation   ErrorCode = "VALIDATION_FAILED"
	ErrCodeBadResponse  ErrorCode = "BAD_RESPONSE"
	ErrCodeUnknown      ErrorCode = "UNKNOWN"
)

// AppError represents an application error with additional context
type AppError struct {
	Kind     Kind      `json:"kind"`
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Resource string    `json:"resource,omitempty"`
	Err      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s error %s: %s", e.Kind, e.Code, e.Message)
	if e.Resource != "" {
		msg = fmt.Sprintf("%s error %s for %s: %s", e.Kind, e.Code, e.Resource, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%v)", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Provider wraps a GitHub API failure
func Provider(code ErrorCode, resource string, err error) *AppError {
	return newError(KindProvider, code, resource, err)
}

// Platform wraps a Discord API failure
func Platform(code ErrorCode, resource string, err error) *AppError {
	return newError(KindPlatform, code, resource, err)
}

// Config creates a configuration error
func Config(format string, args ...interface{}) *AppError {
	return &AppError{
		Kind:    KindConfig,
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

func newError(kind Kind, code ErrorCode, resource string, err error) *AppError {
	return &AppError{
		Kind:     kind,
		Code:     code,
		Message:  messageForCode(code),
		Resource: resource,
		Err:      err,
	}
}

func messageForCode(code ErrorCode) string {
	switch code {
	case ErrCodeUnauthorized:
		return "authentication failed"
	case ErrCodeForbidden:
		return "missing permissions"
	case ErrCodeNotFound:
		return "resource not found"
	case ErrCodeRateLimited:
		return "rate limit exceeded"
	case ErrCodeNetwork:
		return "network failure"
	case ErrCodeValidation:
		return "request rejected"
	case ErrCodeBadResponse:
		return "malformed or failed response"
	default:
		return "request failed"
	}
}

// KindOf returns the kind of the first AppError in err's chain, or "".
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsProvider reports whether err carries a provider failure
func IsProvider(err error) bool {
	return KindOf(err) == KindProvider
}

// IsPlatform reports whether err carries a platform failure
func IsPlatform(err error) bool {
	return KindOf(err) == KindPlatform
}

// CodeOf returns the code of the first AppError in err's chain.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// CodeForStatus maps an HTTP status code returned by a remote API to an
// ErrorCode.
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == 401:
		return ErrCodeUnauthorized
	case status == 403:
		return ErrCodeForbidden
	case status == 404:
		return ErrCodeNotFound
	case status == 422 || status == 400:
		return ErrCodeValidation
	case status == 429:
		return ErrCodeRateLimited
	case status >= 500:
		return ErrCodeBadResponse
	default:
		return ErrCodeUnknown
	}
}
