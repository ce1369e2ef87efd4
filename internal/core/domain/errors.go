package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrJobNotFound      = errors.New("job not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTemporary        = errors.New("temporary failure")

	// Configuration errors are raised before any network call and are never retried.
	ErrConfiguration     = errors.New("configuration error")
	ErrMissingCredential = fmt.Errorf("%w: missing credential", ErrConfiguration)
	ErrInvalidCredential = fmt.Errorf("%w: invalid credential", ErrConfiguration)
	ErrUnknownModel      = fmt.Errorf("%w: unknown model", ErrConfiguration)

	ErrTransport = errors.New("provider transport error")
	ErrCancelled = errors.New("job cancelled")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ChunkError reports the failure of one chunk inside a multi-chunk job.
// Position is 1-based.
type ChunkError struct {
	Position int
	Total    int
	Err      error
}

func (e *ChunkError) Error() string {
	if e == nil {
		return "chunk failed"
	}
	return fmt.Sprintf("processing chunk %d of %d failed: %v", e.Position, e.Total, e.Err)
}

func (e *ChunkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TransportError is a non-2xx or network failure talking to an LLM vendor.
type TransportError struct {
	Provider   Provider
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "provider transport error"
	}
	switch {
	case e.StatusCode > 0 && e.Message != "":
		return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.StatusCode, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s request failed with status %d", e.Provider, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s request failed", e.Provider)
	}
}

func (e *TransportError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

// ExtractionCode classifies document extraction failures.
type ExtractionCode string

const (
	ExtractionFileRead   ExtractionCode = "FILE_READ_ERROR"
	ExtractionFormat     ExtractionCode = "DOCUMENT_FORMAT_ERROR"
	ExtractionProcessing ExtractionCode = "PROCESSING_ERROR"
)

type ExtractionError struct {
	Code    ExtractionCode
	Details string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e == nil {
		return "extraction failed"
	}
	msg := string(e.Code)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() []error {
	if e == nil {
		return nil
	}
	var out []error
	if e.Code != ExtractionProcessing {
		out = append(out, ErrInvalidInput)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}
