// Package errors provides error types and handling for S3 write operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a failed writer operation with context about what failed.
// It wraps the underlying AWS SDK error (or a sentinel) with the operation
// name and target location for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "write", "finish", "uploadPart")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the S3 object key (if applicable)
	Key string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3writer.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3writer.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("s3writer.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// Sentinel errors for writer failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidURI indicates that the target location string is not a parseable URI
	ErrInvalidURI = errors.New("s3writer: invalid URI")

	// ErrInvalidScheme indicates that the URI scheme is not s3://
	ErrInvalidScheme = errors.New("s3writer: invalid URI scheme")

	// ErrMissingBucket indicates that the URI has no bucket component
	ErrMissingBucket = errors.New("s3writer: URI missing bucket name")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3writer: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("s3writer: invalid object key")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3writer: invalid input")

	// ErrWriterFinished indicates that the writer was already finalized
	ErrWriterFinished = errors.New("s3writer: writer already finished")

	// ErrClientInit indicates that the S3 client could not be constructed
	ErrClientInit = errors.New("s3writer: client initialization failed")
)

// IsInvalidInput checks if an error indicates invalid construction input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidURI) ||
		errors.Is(err, ErrInvalidScheme) ||
		errors.Is(err, ErrMissingBucket) ||
		errors.Is(err, ErrInvalidBucketName) ||
		errors.Is(err, ErrInvalidObjectKey)
}

// IsWriterFinished checks if an error indicates a use-after-finish.
func IsWriterFinished(err error) bool {
	return errors.Is(err, ErrWriterFinished)
}
