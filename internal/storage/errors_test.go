package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestClassOf(t *testing.T) {
	base := errors.New("boom")

	assert.Equal(t, ClassAuth, ClassOf(&StoreError{Op: "upload", Class: ClassAuth, Err: base}))
	assert.Equal(t, ClassRateLimit, ClassOf(fmt.Errorf("wrapped: %w", &StoreError{Op: "list", Class: ClassRateLimit, Err: base})))
	assert.Equal(t, ClassTransport, ClassOf(base))
	assert.Equal(t, ClassTransport, ClassOf(nil))
}

func TestStoreErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := &StoreError{Op: "upload", Class: ClassInvalid, Err: base}

	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "upload")
	assert.Contains(t, err.Error(), "invalid")
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		class ErrorClass
	}{
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}, ClassAuth},
		{"bad signature", minio.ErrorResponse{Code: "SignatureDoesNotMatch", StatusCode: 403}, ClassAuth},
		{"slow down", minio.ErrorResponse{Code: "SlowDown", StatusCode: 503}, ClassRateLimit},
		{"throttled status", minio.ErrorResponse{Code: "Unavailable", StatusCode: 503}, ClassRateLimit},
		{"no such bucket", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404}, ClassInvalid},
		{"plain network error", errors.New("connection refused"), ClassTransport},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			classified := classify("upload", tc.err)
			assert.Equal(t, tc.class, ClassOf(classified))
		})
	}
}
