// Command s3put uploads a file or stdin to S3 through the buffered writer.
//
// Usage:
//
//	s3put [flags] <src> s3://bucket/key
//
// src may be a file path or "-" for stdin. Credentials come from the usual
// AWS environment variables; AWS_ENDPOINT points the upload at an
// S3-compatible service.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/lakeops/s3writer"
)

func main() {
	var (
		partSizeMiB = flag.Int("part-size", 32, "split threshold in MiB (minimum 5)")
		gzipFlag    = flag.Bool("gzip", false, "gzip the stream before upload")
		contentType = flag.String("content-type", "", "content type of the uploaded object")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <src> s3://bucket/key\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), flag.Arg(0), flag.Arg(1), *partSizeMiB, *gzipFlag, *contentType, logger); err != nil {
		logger.Error("upload failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, src, dst string, partSizeMiB int, gzipStream bool, contentType string, logger *slog.Logger) error {
	in, err := openSource(src)
	if err != nil {
		return err
	}
	defer in.Close()

	opts := []s3writer.Option{
		s3writer.WithPartSize(partSizeMiB * 1024 * 1024),
		s3writer.WithLogger(logger),
	}
	if contentType != "" {
		opts = append(opts, s3writer.WithContentType(contentType))
	} else if gzipStream {
		opts = append(opts, s3writer.WithContentType("application/gzip"))
	}

	w, err := s3writer.New(dst, opts...)
	if err != nil {
		return err
	}

	var sink io.Writer = w
	var gw *gzip.Writer
	if gzipStream {
		gw = gzip.NewWriter(w)
		sink = gw
	}

	if _, err := io.Copy(sink, in); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if gw != nil {
		if err := gw.Close(); err != nil {
			return fmt.Errorf("flushing gzip stream: %w", err)
		}
	}

	total, err := w.Finish(ctx)
	if err != nil {
		return err
	}

	logger.Info("upload complete",
		slog.String("target", dst),
		slog.Int64("bytes", total))
	return nil
}

func openSource(src string) (io.ReadCloser, error) {
	if src == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", src, err)
	}
	return f, nil
}
