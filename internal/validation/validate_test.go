package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeops/s3writer/errors"
)

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{name: "valid simple", bucket: "my-bucket", wantErr: false},
		{name: "valid with dots", bucket: "my.bucket.name", wantErr: false},
		{name: "valid numeric start", bucket: "0bucket", wantErr: false},
		{name: "valid minimum length", bucket: "abc", wantErr: false},
		{name: "valid maximum length", bucket: strings.Repeat("a", 63), wantErr: false},
		{name: "empty", bucket: "", wantErr: true},
		{name: "too short", bucket: "ab", wantErr: true},
		{name: "too long", bucket: strings.Repeat("a", 64), wantErr: true},
		{name: "uppercase", bucket: "MyBucket", wantErr: true},
		{name: "underscore", bucket: "my_bucket", wantErr: true},
		{name: "leading hyphen", bucket: "-bucket", wantErr: true},
		{name: "trailing hyphen", bucket: "bucket-", wantErr: true},
		{name: "leading dot", bucket: ".bucket", wantErr: true},
		{name: "trailing dot", bucket: "bucket.", wantErr: true},
		{name: "adjacent dots", bucket: "buck..et", wantErr: true},
		{name: "adjacent hyphens", bucket: "buck--et", wantErr: true},
		{name: "ip address form", bucket: "192.168.1.1", wantErr: true},
		{name: "not quite an ip", bucket: "192.168.1.256", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidBucketName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "valid simple", key: "data.bin", wantErr: false},
		{name: "valid nested", key: "exports/2024/part-1.parquet", wantErr: false},
		{name: "valid unicode", key: "données/été.csv", wantErr: false},
		{name: "valid maximum length", key: strings.Repeat("k", 1024), wantErr: false},
		{name: "empty", key: "", wantErr: true},
		{name: "too long", key: strings.Repeat("k", 1025), wantErr: true},
		{name: "path traversal", key: "a/../b", wantErr: true},
		{name: "bare traversal", key: "..", wantErr: true},
		{name: "control character", key: "bad\x00key", wantErr: true},
		{name: "newline", key: "bad\nkey", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidObjectKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
