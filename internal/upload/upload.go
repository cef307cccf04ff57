// Package upload issues the completion calls for an accumulated object.
// It implements the two upload strategies the writer chooses between at
// finalize time: a single PutObject for a lone small part, and a multipart
// session (create, sequential part uploads in write order, complete) for
// everything else.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/lakeops/s3writer/errors"
	"github.com/lakeops/s3writer/internal/s3api"
)

// Object carries per-upload request settings shared by both strategies.
type Object struct {
	ContentType  string
	Metadata     map[string]string
	StorageClass awstypes.StorageClass
}

// Uploader issues upload requests against a single bucket/key target.
type Uploader struct {
	client s3api.S3API
	bucket string
	key    string
	logger *slog.Logger
}

// New creates an Uploader for the given target.
// logger may be nil, in which case nothing is logged.
func New(client s3api.S3API, bucket, key string, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Uploader{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}
}

// Put uploads the object in a single request. data may be empty; S3 accepts
// zero-length objects.
func (u *Uploader) Put(ctx context.Context, data []byte, obj *Object) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(u.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	applyObject(obj, input, nil)

	u.logger.Debug("uploading with single put",
		slog.String("key", u.key),
		slog.Int("bytes", len(data)))

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return errors.NewObjectError("put", u.bucket, u.key, err)
	}
	return nil
}

// Multipart uploads the sealed parts through a multipart session, one session
// part per sealed part, in the order given. Ordering matters: the provider
// assembles the final object from parts in this order.
//
// A failure at any phase aborts the whole operation without cleaning up the
// remote session; the provider's lifecycle rules reclaim abandoned sessions.
func (u *Uploader) Multipart(ctx context.Context, parts [][]byte, obj *Object) error {
	createInput := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(u.key),
	}
	applyObject(obj, nil, createInput)

	u.logger.Debug("starting multipart upload",
		slog.String("key", u.key),
		slog.Int("parts", len(parts)))

	createOutput, err := u.client.CreateMultipartUpload(ctx, createInput)
	if err != nil {
		return errors.NewObjectError("multipartStart", u.bucket, u.key, err)
	}
	uploadID := aws.ToString(createOutput.UploadId)

	completed := make([]awstypes.CompletedPart, 0, len(parts))
	for i, part := range parts {
		partNumber := int32(i + 1)

		u.logger.Debug("uploading part",
			slog.Int("part", int(partNumber)),
			slog.Int("bytes", len(part)))

		partOutput, err := u.client.UploadPart(ctx, &s3.UploadPartInput{
			Bucket:        aws.String(u.bucket),
			Key:           aws.String(u.key),
			UploadId:      aws.String(uploadID),
			PartNumber:    aws.Int32(partNumber),
			Body:          bytes.NewReader(part),
			ContentLength: aws.Int64(int64(len(part))),
		})
		if err != nil {
			return errors.NewObjectError("uploadPart", u.bucket, u.key, err).
				WithMessage(fmt.Sprintf("part %d (%d bytes)", partNumber, len(part)))
		}

		completed = append(completed, awstypes.CompletedPart{
			ETag:       partOutput.ETag,
			PartNumber: aws.Int32(partNumber),
		})
	}

	_, err = u.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(u.bucket),
		Key:      aws.String(u.key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &awstypes.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return errors.NewObjectError("multipartComplete", u.bucket, u.key, err)
	}
	return nil
}

// applyObject copies request settings onto whichever input is being built.
func applyObject(obj *Object, put *s3.PutObjectInput, create *s3.CreateMultipartUploadInput) {
	if obj == nil {
		return
	}
	if put != nil {
		if obj.ContentType != "" {
			put.ContentType = aws.String(obj.ContentType)
		}
		if len(obj.Metadata) > 0 {
			put.Metadata = obj.Metadata
		}
		if obj.StorageClass != "" {
			put.StorageClass = obj.StorageClass
		}
	}
	if create != nil {
		if obj.ContentType != "" {
			create.ContentType = aws.String(obj.ContentType)
		}
		if len(obj.Metadata) > 0 {
			create.Metadata = obj.Metadata
		}
		if obj.StorageClass != "" {
			create.StorageClass = obj.StorageClass
		}
	}
}
