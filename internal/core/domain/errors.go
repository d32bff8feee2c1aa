package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrSuperseded indicates a response arrived after a newer request
	// for the same operation and was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")

	// Inventory Errors.

	// ErrDeleteCancelled indicates the confirmation gate was declined.
	ErrDeleteCancelled = errors.New("delete cancelled")

	// ErrDeleteFailed indicates the backend did not delete the document.
	ErrDeleteFailed = errors.New("failed to delete document")

	// Preview Errors.

	// ErrPreviewFailed is the single classification for preview failures.
	ErrPreviewFailed = errors.New("failed to load document preview")

	// Upload Errors.

	// ErrUploadInProgress indicates a submission is already running.
	ErrUploadInProgress = errors.New("upload in progress")

	// ErrUploadFailed indicates the backend rejected the upload.
	ErrUploadFailed = errors.New("upload failed")

	// Chat Errors.

	// ErrQuestionInFlight indicates a question is already awaiting an answer.
	ErrQuestionInFlight = errors.New("question already in flight")
)

// TransportError indicates no response reached the client
// (offline, DNS failure, connection reset, cancelled context).
type TransportError struct {
	// Op names the gateway operation, e.g. "list documents".
	Op string

	// Err is the underlying transport failure.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError indicates the backend answered with a non-2xx status, or
// with a 2xx body that could not be decoded.
type ServerError struct {
	// Op names the gateway operation.
	Op string

	// StatusCode is the HTTP status returned.
	StatusCode int

	// Message is the backend's detail text, if any.
	Message string

	// Err is the decoding failure behind a malformed 2xx response.
	Err error
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: server error (status %d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server error (status %d): %s", e.Op, e.StatusCode, e.Message)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// Is reports a 404 as ErrNotFound.
func (e *ServerError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// NotFound returns true if the backend reported the entity unknown.
func (e *ServerError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// ValidationError indicates input rejected before any network call.
type ValidationError struct {
	// Field is the rejected input, e.g. "question".
	Field string

	// Reason explains the rejection.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// IsTransport returns true if err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsServer returns true if err is, or wraps, a ServerError.
func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
