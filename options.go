// Functional options for configuring the writer.
// These follow the functional options pattern for clean, composable configuration.
package s3writer

import (
	"log/slog"
	"net/http"

	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// config holds writer configuration assembled from functional options.
type config struct {
	partSize int

	// client construction
	region       string
	endpoint     string
	accessKey    string
	secretKey    string
	sessionToken string
	httpClient   *http.Client

	// upload request settings
	contentType  string
	metadata     map[string]string
	storageClass awstypes.StorageClass

	logger *slog.Logger
}

// Option is a functional option for configuring a Writer.
type Option func(*config)

// defaultConfig returns the default writer configuration.
func defaultConfig() *config {
	return &config{
		partSize: DefaultPartSize,
	}
}

// WithPartSize sets the split threshold: the in-progress buffer size at which
// a part is sealed. Thresholds should normally be at least MinPartSize so
// that every sealed part except the last satisfies the S3 per-part minimum.
// Non-positive values are ignored.
func WithPartSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.partSize = size
		}
	}
}

// WithRegion sets the AWS region, overriding the AWS_REGION environment variable.
func WithRegion(region string) Option {
	return func(c *config) {
		c.region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL, overriding AWS_ENDPOINT.
// This is useful for S3-compatible services or local testing. A custom
// endpoint implies path-style addressing.
func WithEndpoint(endpoint string) Option {
	return func(c *config) {
		c.endpoint = endpoint
	}
}

// WithStaticCredentials sets explicit credentials, overriding
// AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.
func WithStaticCredentials(accessKey, secretKey string) Option {
	return func(c *config) {
		c.accessKey = accessKey
		c.secretKey = secretKey
	}
}

// WithSessionToken sets a session token for temporary credentials,
// overriding AWS_SESSION_TOKEN.
func WithSessionToken(token string) Option {
	return func(c *config) {
		c.sessionToken = token
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
// This gives full control over HTTP behavior including timeouts and proxies.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithContentType sets the content type of the uploaded object.
// If not set, the content type is sniffed from the first sealed part
// at finalize time.
func WithContentType(contentType string) Option {
	return func(c *config) {
		c.contentType = contentType
	}
}

// WithMetadata sets user metadata on the uploaded object.
func WithMetadata(metadata map[string]string) Option {
	return func(c *config) {
		if c.metadata == nil {
			c.metadata = make(map[string]string)
		}
		for k, v := range metadata {
			c.metadata[k] = v
		}
	}
}

// WithStorageClass sets the storage class of the uploaded object.
func WithStorageClass(storageClass awstypes.StorageClass) Option {
	return func(c *config) {
		c.storageClass = storageClass
	}
}

// WithLogger configures the writer with a structured logger.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
