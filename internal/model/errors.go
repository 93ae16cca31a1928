package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or invalid form input. No request is issued.
	ErrValidation = errors.New("validation failed")

	// ErrPermissionDenied means the audio input could not be acquired.
	// Callers degrade to text input instead of reporting it.
	ErrPermissionDenied = errors.New("microphone permission denied")

	ErrNoActiveSession   = errors.New("no active session")
	ErrNoQuestion        = errors.New("no question available")
	ErrNoAnswer          = errors.New("please record an answer or type a response")
	ErrBusy              = errors.New("operation already in progress")
	ErrNothingToDownload = errors.New("no optimized resume to download")
)

// ValidationError names the form fields that failed validation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid returns a *ValidationError with a formatted message.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// HTTPError wraps a non-2xx status code and the backend's error message, if any.
type HTTPError struct {
	StatusCode int
	Message    string // "error" field of the JSON body, or the raw body
	Err        error
}

func (e *HTTPError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NetworkError is a transport failure: the request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BackendError is a response the backend produced but that cannot be used:
// a non-2xx status, an "error" field, or an undecodable body.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend error: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// TranscriptionError aborts an answer submission whose audio could not be
// transcribed. There is no fallback to typed text.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("audio transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies err for display.
func ErrorKind(err error) string {
	var (
		netErr   *NetworkError
		backErr  *BackendError
		transErr *TranscriptionError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &transErr):
		return "transcription"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &backErr):
		return "backend"
	case errors.Is(err, ErrPermissionDenied):
		return "permission"
	default:
		return "error"
	}
}
