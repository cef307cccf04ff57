// Package minio provides the buffered object writer for MinIO and other
// S3-compatible stores reached through the minio-go client.
//
// The writer has the same two-phase lifecycle as the parent package:
// synchronous buffered writes seal parts at the split threshold, and Finish
// uploads everything exactly once, with a single put for a lone small part
// and a multipart session otherwise.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"

	"github.com/lakeops/s3writer/errors"
)

const (
	// minPartSize is the minimum multipart part size (except the last part).
	minPartSize = 5 * 1024 * 1024

	// defaultPartSize is the default split threshold.
	defaultPartSize = 32 * 1024 * 1024
)

// CoreAPI defines the subset of the minio-go Core interface used by the
// writer. This enables testing with mock implementations.
type CoreAPI interface {
	PutObject(
		ctx context.Context,
		bucket, object string,
		data io.Reader,
		size int64,
		md5Base64, sha256Hex string,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
	NewMultipartUpload(
		ctx context.Context,
		bucket, object string,
		opts minio.PutObjectOptions,
	) (string, error)
	PutObjectPart(
		ctx context.Context,
		bucket, object, uploadID string,
		partID int,
		data io.Reader,
		size int64,
		opts minio.PutObjectPartOptions,
	) (minio.ObjectPart, error)
	CompleteMultipartUpload(
		ctx context.Context,
		bucket, object, uploadID string,
		parts []minio.CompletePart,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
}

// Verify that the minio-go core client implements our interface
var _ CoreAPI = (*minio.Core)(nil)

// Options configures the writer.
type Options struct {
	// PartSize is the split threshold. Non-positive values fall back to the
	// default; thresholds should normally be at least the multipart minimum.
	PartSize int

	// ContentType is set on the uploaded object when non-empty.
	ContentType string

	// Logger enables structured logging. Nil disables logging.
	Logger *slog.Logger
}

// Writer buffers data parts in memory and uploads them through the MinIO
// core API when finished. Like the parent package's writer it is a
// single-use, single-owner resource: Finish consumes it.
type Writer struct {
	core   CoreAPI
	bucket string
	key    string

	partSize    int
	contentType string
	logger      *slog.Logger

	buf      []byte
	parts    [][]byte
	total    int64
	finished bool
}

// NewWriter creates a writer that uploads to bucket/key through core.
// The core client must be pre-configured with credentials and endpoint.
func NewWriter(core CoreAPI, bucket, key string, opts Options) *Writer {
	partSize := opts.PartSize
	if partSize <= 0 {
		partSize = defaultPartSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Writer{
		core:        core,
		bucket:      bucket,
		key:         key,
		partSize:    partSize,
		contentType: opts.ContentType,
		logger:      logger,
		buf:         make([]byte, 0, partSize),
	}
}

// Write implements io.Writer. It appends p to the in-progress buffer and
// seals the buffer as a part once it reaches the split threshold. No network
// I/O happens here.
func (w *Writer) Write(p []byte) (int, error) {
	if w.finished {
		return 0, errors.NewObjectError("write", w.bucket, w.key, errors.ErrWriterFinished)
	}

	w.total += int64(len(p))
	w.buf = append(w.buf, p...)

	if len(w.buf) >= w.partSize {
		w.sealPart()
	}

	return len(p), nil
}

// Flush is a no-op; all uploads happen in Finish.
func (w *Writer) Flush() error {
	return nil
}

// TotalBytes returns the total number of bytes written so far.
func (w *Writer) TotalBytes() int64 {
	return w.total
}

func (w *Writer) sealPart() {
	part := w.buf
	w.parts = append(w.parts, part)
	w.buf = make([]byte, 0, w.partSize)

	w.logger.Debug("sealed part",
		slog.Int("part", len(w.parts)),
		slog.Int("bytes", len(part)))
}

// Finish uploads the accumulated parts and returns the total byte count.
// It consumes the writer; any later Write or Finish fails with
// ErrWriterFinished. Zero writes produce a zero-length object.
func (w *Writer) Finish(ctx context.Context) (int64, error) {
	if w.finished {
		return 0, errors.NewObjectError("finish", w.bucket, w.key, errors.ErrWriterFinished)
	}
	w.finished = true

	if len(w.buf) > 0 {
		w.sealPart()
	}

	parts := w.parts
	w.parts = nil
	w.buf = nil

	putOpts := minio.PutObjectOptions{ContentType: w.contentType}

	if len(parts) == 0 || (len(parts) == 1 && len(parts[0]) < minPartSize) {
		var data []byte
		if len(parts) == 1 {
			data = parts[0]
		}

		w.logger.Debug("uploading with single put",
			slog.String("key", w.key),
			slog.Int("bytes", len(data)))

		_, err := w.core.PutObject(ctx, w.bucket, w.key,
			bytes.NewReader(data), int64(len(data)), "", "", putOpts)
		if err != nil {
			return 0, errors.NewObjectError("put", w.bucket, w.key, err)
		}
		return w.total, nil
	}

	w.logger.Debug("starting multipart upload",
		slog.String("key", w.key),
		slog.Int("parts", len(parts)))

	uploadID, err := w.core.NewMultipartUpload(ctx, w.bucket, w.key, putOpts)
	if err != nil {
		return 0, errors.NewObjectError("multipartStart", w.bucket, w.key, err)
	}

	completed := make([]minio.CompletePart, 0, len(parts))
	for i, part := range parts {
		partNumber := i + 1

		info, err := w.core.PutObjectPart(ctx, w.bucket, w.key, uploadID,
			partNumber, bytes.NewReader(part), int64(len(part)),
			minio.PutObjectPartOptions{})
		if err != nil {
			return 0, errors.NewObjectError("uploadPart", w.bucket, w.key, err).
				WithMessage(fmt.Sprintf("part %d (%d bytes)", partNumber, len(part)))
		}

		completed = append(completed, minio.CompletePart{
			PartNumber: partNumber,
			ETag:       info.ETag,
		})
	}

	if _, err := w.core.CompleteMultipartUpload(ctx, w.bucket, w.key, uploadID, completed, putOpts); err != nil {
		return 0, errors.NewObjectError("multipartComplete", w.bucket, w.key, err)
	}

	w.logger.Info("uploaded object",
		slog.String("bucket", w.bucket),
		slog.String("key", w.key),
		slog.Int64("bytes", w.total))

	return w.total, nil
}
