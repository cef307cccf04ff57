// S3 client construction from environment variables and options.
package s3writer

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lakeops/s3writer/errors"
)

// DefaultRegion is used when neither WithRegion nor AWS_REGION provide one.
const DefaultRegion = "us-east-1"

// newClient builds an S3 client from the environment, with option values
// taking precedence over environment variables. Each setting is optional;
// absence means the AWS SDK default credential chain applies.
//
// Recognized environment variables:
//   - AWS_ACCESS_KEY_ID
//   - AWS_SECRET_ACCESS_KEY
//   - AWS_REGION (defaults to us-east-1)
//   - AWS_SESSION_TOKEN (for temporary credentials)
//   - AWS_ENDPOINT (for S3-compatible services)
func newClient(ctx context.Context, cfg *config) (*s3.Client, error) {
	region := cfg.region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	accessKey := cfg.accessKey
	secretKey := cfg.secretKey
	if accessKey == "" && secretKey == "" {
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	sessionToken := cfg.sessionToken
	if sessionToken == "" {
		sessionToken = os.Getenv("AWS_SESSION_TOKEN")
	}

	if accessKey != "" && secretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.NewError("clientInit", errors.ErrClientInit).
			WithMessage(err.Error())
	}

	endpoint := cfg.endpoint
	if endpoint == "" {
		endpoint = os.Getenv("AWS_ENDPOINT")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// S3-compatible services generally require path-style addressing
			o.UsePathStyle = true
		}
		if cfg.httpClient != nil {
			o.HTTPClient = cfg.httpClient
		}
	})

	return client, nil
}
