package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidProductID   = errors.New("product id must be a number")
	ErrInvalidSortOrder   = errors.New("sort order must be one of default, asc, desc")
	ErrStorageUnavailable = errors.New("persistent storage unavailable")
)

// TransportError means the request never reached the catalog server
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError means the catalog server answered with a non-2xx status
type HTTPError struct {
	Op         string
	Status     int
	StatusText string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("failed to %s: %d %s - %s", e.Op, e.Status, e.StatusText, e.Body)
}

// DecodeError means the response body did not match the expected shape
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unexpected response to %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
