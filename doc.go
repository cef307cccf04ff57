// Package s3writer provides a buffered, single-use writer that turns an
// arbitrary sequence of synchronous byte writes into a small number of
// large parts and uploads them to S3 at the end of the object's lifetime.
//
// The writer runs in two phases. During accumulation, Write calls append to
// an in-memory buffer that is sealed into an immutable part whenever it
// reaches the configured split threshold; no network I/O happens here, so
// writes are safe from call paths that cannot block (such as an encoder's
// output loop). At Finish, the sealed parts are uploaded exactly once:
// a lone part below the S3 multipart minimum goes out as a single put,
// anything else through a multipart session with one session part per
// sealed part, in write order.
//
// Key features:
//   - io.Writer accumulation with zero network I/O until Finish
//   - Automatic choice between single put and multipart upload
//   - Target resolution from s3://bucket/key URIs with environment credentials
//   - Progressive configuration through functional options
//   - Content-type detection for uploaded objects
//
// Example usage:
//
//	w, err := s3writer.New("s3://my-bucket/path/object.bin",
//	    s3writer.WithPartSize(16*1024*1024),
//	)
//	if err != nil {
//	    return err
//	}
//
//	if _, err := io.Copy(w, src); err != nil {
//	    return err
//	}
//
//	total, err := w.Finish(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("uploaded %d bytes\n", total)
//
// The minio subpackage provides the same writer against MinIO and other
// S3-compatible stores reached through the minio-go client.
package s3writer
