package s3writer

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/lakeops/s3writer/errors"
	"github.com/lakeops/s3writer/internal/s3api"
	"github.com/lakeops/s3writer/internal/upload"
)

const (
	// MinPartSize is the minimum part size enforced by AWS S3 for multipart
	// uploads (except the last part).
	MinPartSize = 5 * 1024 * 1024

	// DefaultPartSize is the default split threshold. It is chosen well above
	// MinPartSize so splitting at the threshold automatically satisfies the
	// per-part minimum for every part except the last.
	DefaultPartSize = 32 * 1024 * 1024
)

// Writer buffers data parts in memory and uploads them to S3 when finished.
//
// Writes never perform network I/O: data accumulates in an in-progress buffer
// that is sealed into an immutable part whenever it reaches the split
// threshold. All I/O is deferred to Finish, so the writer can be driven from
// a call path that cannot itself block on the network.
//
// A Writer is a single-use, single-owner resource. It is not safe for
// concurrent use, and Finish consumes it: no writes or further finalizations
// are permitted afterwards.
type Writer struct {
	client s3api.S3API
	bucket string
	key    string

	// buf is the in-progress buffer; parts holds sealed parts in write order.
	buf   []byte
	parts [][]byte

	// total counts every byte ever written, independent of part boundaries.
	total int64

	finished bool

	cfg    *config
	logger *slog.Logger
}

// New creates a writer for the given s3://bucket/key URI.
//
// Authentication is handled through AWS environment variables
// (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_REGION, AWS_SESSION_TOKEN,
// AWS_ENDPOINT), each optional and overridable via options.
//
// Example:
//
//	w, err := s3writer.New("s3://my-bucket/data/file.parquet")
//	if err != nil {
//	    return err
//	}
//	_, err = io.Copy(w, src)
//	if err != nil {
//	    return err
//	}
//	total, err := w.Finish(ctx)
func New(uri string, opts ...Option) (*Writer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	bucket, key, err := parseTarget(uri)
	if err != nil {
		return nil, err
	}

	client, err := newClient(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logger.Debug("created S3 writer",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.Int("part_size", cfg.partSize))

	return &Writer{
		client: client,
		bucket: bucket,
		key:    key,
		buf:    make([]byte, 0, cfg.partSize),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// NewWithClient creates a writer with an injected S3 client and explicit
// target. This is primarily used for testing with mocked clients.
func NewWithClient(client s3api.S3API, bucket, key string, opts ...Option) *Writer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Writer{
		client: client,
		bucket: bucket,
		key:    key,
		buf:    make([]byte, 0, cfg.partSize),
		cfg:    cfg,
		logger: logger,
	}
}

// Write implements io.Writer. It appends p to the in-progress buffer and
// seals the buffer as a part once it reaches the split threshold. Write
// accepts the whole slice or fails; it never performs network I/O.
func (w *Writer) Write(p []byte) (int, error) {
	if w.finished {
		return 0, errors.NewObjectError("write", w.bucket, w.key, errors.ErrWriterFinished)
	}

	w.total += int64(len(p))
	w.buf = append(w.buf, p...)

	if len(w.buf) >= w.cfg.partSize {
		w.sealPart()
	}

	return len(p), nil
}

// Flush implements a no-op flush. No I/O is pending at flush time because
// all uploads happen exclusively in Finish.
func (w *Writer) Flush() error {
	return nil
}

// TotalBytes returns the total number of bytes written so far. It remains
// valid after Finish.
func (w *Writer) TotalBytes() int64 {
	return w.total
}

// sealPart moves the in-progress buffer into the sealed parts list and
// starts a fresh buffer.
func (w *Writer) sealPart() {
	part := w.buf
	w.parts = append(w.parts, part)
	w.buf = make([]byte, 0, w.cfg.partSize)

	w.logger.Debug("sealed part",
		slog.Int("part", len(w.parts)),
		slog.Int("bytes", len(part)))
}

// Finish uploads the accumulated parts and returns the total byte count.
// It consumes the writer: a second Finish, or any Write afterwards, fails
// with ErrWriterFinished.
//
// A lone part below the S3 multipart minimum is uploaded with a single put;
// so is an empty object when nothing was written. Everything else goes
// through a multipart session with one session part per sealed part,
// uploaded sequentially in write order.
//
// Finish must be called from a context that can block on network I/O. A
// failed multipart session is not aborted here; the provider's lifecycle
// rules reclaim it.
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

	obj := &upload.Object{
		ContentType:  w.contentType(parts),
		Metadata:     w.cfg.metadata,
		StorageClass: w.cfg.storageClass,
	}
	up := upload.New(w.client, w.bucket, w.key, w.logger)

	w.logger.Debug("finishing S3 upload",
		slog.Int64("total_bytes", w.total),
		slog.Int("parts", len(parts)))

	var err error
	switch {
	case len(parts) == 0:
		// Nothing was written: upload an explicit zero-length object rather
		// than opening an empty multipart session, whose outcome is
		// provider-dependent.
		err = up.Put(ctx, nil, obj)
	case len(parts) == 1 && len(parts[0]) < MinPartSize:
		// A lone small part never needs a multipart session.
		err = up.Put(ctx, parts[0], obj)
	default:
		err = up.Multipart(ctx, parts, obj)
	}
	if err != nil {
		return 0, err
	}

	w.logger.Info("uploaded object to S3",
		slog.String("bucket", w.bucket),
		slog.String("key", w.key),
		slog.Int64("bytes", w.total))

	return w.total, nil
}

// contentType resolves the object content type: an explicit option wins,
// then sniffing the first sealed bytes, then the key extension.
func (w *Writer) contentType(parts [][]byte) string {
	if w.cfg.contentType != "" {
		return w.cfg.contentType
	}

	if len(parts) > 0 && len(parts[0]) > 0 {
		head := parts[0]
		if len(head) > 512 {
			head = head[:512]
		}
		if mt := mimetype.Detect(head); mt.String() != "application/octet-stream" {
			return mt.String()
		}
	}

	if ext := strings.ToLower(filepath.Ext(w.key)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	return ""
}
