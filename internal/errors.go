package internal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBusy is returned when a screen already has a submit in flight
	ErrBusy = errors.New("a request is already in progress")

	// ErrNotAuthenticated is returned when no credential is stored
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrNothingToExport is returned when an export is requested for an empty result set
	ErrNothingToExport = errors.New("nothing to export")

	// ErrNoDocuments is returned by demo search before anything was uploaded
	ErrNoDocuments = errors.New("no documents uploaded yet")
)

// ValidationError blocks a submit before any network call is made
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// APIError is a non-2xx response from the backend
type APIError struct {
	Endpoint   string
	Status     int
	StatusText string
	Detail     string // "detail" field of a JSON error body, if any
	Body       string // raw response body
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.StatusText
	}
	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.Status, msg)
}

// NetworkError wraps a transport failure talking to the backend
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error [%s]: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UploadError is what the upload flow surfaces for any failed ingest
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	var apiErr *APIError
	if errors.As(e.Err, &apiErr) {
		msg := apiErr.Detail
		if msg == "" {
			msg = apiErr.StatusText
		}
		return fmt.Sprintf("upload failed: %d - %s", apiErr.Status, msg)
	}
	return fmt.Sprintf("upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// QueryError is what the search flow surfaces for any failed query.
// Message is shown to the user verbatim.
type QueryError struct {
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	return e.Message
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Rejection records why a selected file was not added to the pending set
type Rejection struct {
	Name    string
	Reasons []string
}

func (r Rejection) String() string {
	parts := make([]string, len(r.Reasons))
	for i, reason := range r.Reasons {
		parts[i] = r.Name + " - " + reason
	}
	return strings.Join(parts, ", ")
}

// RejectionError combines the rejections of one file selection
type RejectionError struct {
	Rejections []Rejection
}

func (e *RejectionError) Error() string {
	parts := make([]string, len(e.Rejections))
	for i, r := range e.Rejections {
		parts[i] = r.String()
	}
	return strings.Join(parts, "; ")
}

// StorageError represents errors accessing persisted client storage
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "clear"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
