package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any network call when no API key is configured.
	ErrMissingCredential = errors.New("ai: API key is missing")
	// ErrProviderError matches every *ProviderError.
	ErrProviderError = errors.New("ai: provider error")
	// ErrNoStructuredData means the response held no bracket-delimited array.
	ErrNoStructuredData = errors.New("ai: no JSON array in response")
	// ErrMalformedData matches every *MalformedDataError.
	ErrMalformedData = errors.New("ai: malformed JSON array in response")
	// ErrUnexpectedShape means the parsed value was not an array.
	ErrUnexpectedShape = errors.New("ai: response is not a JSON array")
	// ErrUnknownRegion is returned for identifiers outside the region registry.
	ErrUnknownRegion = errors.New("ai: unknown region")
)

// ProviderError wraps a failure of the remote generative call.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProviderError }

// MalformedDataError carries the snippet that failed to parse.
type MalformedDataError struct {
	Snippet string
	Err     error
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed JSON array: %v\nSnippet: %s", e.Err, e.Snippet)
}

func (e *MalformedDataError) Unwrap() error { return e.Err }

func (e *MalformedDataError) Is(target error) bool { return target == ErrMalformedData }
