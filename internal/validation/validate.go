// Package validation provides input validation for write targets.
// Bucket names and object keys are validated before any request is sent
// to S3, so construction fails fast on targets the provider would reject.
package validation

import (
	"strings"
	"unicode"

	"github.com/lakeops/s3writer/errors"
)

// ValidateBucketName validates that a bucket name is DNS-compliant according to AWS S3 rules.
// Returns ErrInvalidBucketName if the bucket name is invalid.
func ValidateBucketName(bucket string) error {
	if bucket == "" {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name cannot be empty")
	}

	if len(bucket) < 3 || len(bucket) > 63 {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name must be between 3 and 63 characters long")
	}

	for _, char := range bucket {
		if !isValidBucketChar(char) {
			return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
				WithBucket(bucket).
				WithMessage("bucket name can only contain lowercase letters, numbers, dots, and hyphens")
		}
	}

	if bucket[0] == '-' || bucket[0] == '.' || bucket[len(bucket)-1] == '-' || bucket[len(bucket)-1] == '.' {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name cannot start or end with a hyphen or dot")
	}

	if isIPAddress(bucket) {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name cannot be formatted as an IP address")
	}

	if hasAdjacentSpecialChars(bucket) {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name cannot contain two adjacent periods or hyphens")
	}

	return nil
}

// ValidateObjectKey validates that an object key is valid according to AWS S3 rules.
// This includes preventing path traversal and ensuring valid characters.
func ValidateObjectKey(key string) error {
	if key == "" {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot be empty")
	}

	if strings.Contains(key, "..") {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot contain path traversal sequences")
	}

	// S3 supports keys up to 1024 bytes
	if len(key) > 1024 {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot exceed 1024 characters")
	}

	// S3 keys can contain any UTF-8 character but control characters
	// are almost certainly a caller bug
	for _, char := range key {
		if unicode.IsControl(char) {
			return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
				WithKey(key).
				WithMessage("object key cannot contain control characters")
		}
	}

	return nil
}

// isValidBucketChar checks if a character is valid in a bucket name
func isValidBucketChar(char rune) bool {
	return (char >= '0' && char <= '9') || (char >= 'a' && char <= 'z') || char == '.' || char == '-'
}

// hasAdjacentSpecialChars checks for adjacent special characters
func hasAdjacentSpecialChars(bucket string) bool {
	for i := 0; i < len(bucket)-1; i++ {
		if (bucket[i] == '.' && bucket[i+1] == '.') || (bucket[i] == '-' && bucket[i+1] == '-') {
			return true
		}
	}
	return false
}

// isIPAddress checks if a string is formatted as an IPv4 address
func isIPAddress(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}

	for _, part := range parts {
		if len(part) == 0 {
			return true
		}
		num := 0
		for _, char := range part {
			if char < '0' || char > '9' {
				return false
			}
			num = num*10 + int(char-'0')
		}
		if num > 255 {
			return false
		}
	}

	return true
}
