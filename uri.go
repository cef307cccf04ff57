package s3writer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lakeops/s3writer/errors"
	"github.com/lakeops/s3writer/internal/validation"
)

// parseTarget parses an s3://bucket/key URI into its bucket and key
// components and validates both against S3 naming rules.
func parseTarget(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", errors.NewError("parseTarget", errors.ErrInvalidURI).
			WithMessage(err.Error())
	}

	if u.Scheme != "s3" {
		return "", "", errors.NewError("parseTarget", errors.ErrInvalidScheme).
			WithMessage(fmt.Sprintf("expected s3:// URI, got %q", u.Scheme))
	}

	bucket = u.Host
	if bucket == "" {
		return "", "", errors.NewError("parseTarget", errors.ErrMissingBucket)
	}

	key = strings.TrimPrefix(u.Path, "/")

	if err := validation.ValidateBucketName(bucket); err != nil {
		return "", "", err
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return "", "", err
	}

	return bucket, key, nil
}
