package sharedalbum

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken is returned for share tokens that cannot be decoded.
	ErrInvalidToken = errors.New("invalid share token")

	// ErrSkipPhoto matches any *SkipError.
	ErrSkipPhoto = errors.New("photo skipped")
)

// FetchError is a transport failure or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s: %s", e.URL, e.Status, e.Body)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means a response did not have the expected shape.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SkipError means a photo cannot be used, but the rest of the album can.
type SkipError struct {
	PhotoGUID string
	Reason    string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipping photo %s: %s", e.PhotoGUID, e.Reason)
}

func (e *SkipError) Is(target error) bool { return target == ErrSkipPhoto }
