package storage

import (
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
)

type ErrorClass string

const (
	// ClassAuth: credential failure. Operator-fixable, never retryable as-is.
	ClassAuth ErrorClass = "auth"
	// ClassInvalid: the request itself was malformed. User-fixable.
	ClassInvalid ErrorClass = "invalid"
	// ClassRateLimit: retryable after backoff.
	ClassRateLimit ErrorClass = "rate_limit"
	// ClassTransport: network-level failure, retryable.
	ClassTransport ErrorClass = "transport"
)

type StoreError struct {
	Op    string
	Class ErrorClass
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("asset host %s (%s): %v", e.Op, e.Class, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ClassOf extracts the error class, defaulting unknown errors to transport.
func ClassOf(err error) ErrorClass {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Class
	}
	return ClassTransport
}

func classify(op string, err error) error {
	resp := minio.ToErrorResponse(err)

	class := ClassTransport
	switch resp.Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
		class = ClassAuth
	case "SlowDown", "TooManyRequests":
		class = ClassRateLimit
	default:
		switch {
		case resp.StatusCode == 429 || resp.StatusCode == 503:
			class = ClassRateLimit
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			class = ClassInvalid
		}
	}

	return &StoreError{Op: op, Class: class, Err: err}
}
