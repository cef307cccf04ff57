package minio

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeops/s3writer/errors"
)

const mb = 1024 * 1024

type fakeCore struct {
	putFunc      func(ctx context.Context, bucket, object string, data io.Reader, size int64, md5Base64, sha256Hex string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	newFunc      func(ctx context.Context, bucket, object string, opts minio.PutObjectOptions) (string, error)
	partFunc     func(ctx context.Context, bucket, object, uploadID string, partID int, data io.Reader, size int64, opts minio.PutObjectPartOptions) (minio.ObjectPart, error)
	completeFunc func(ctx context.Context, bucket, object, uploadID string, parts []minio.CompletePart, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

func (f *fakeCore) PutObject(ctx context.Context, bucket, object string, data io.Reader, size int64, md5Base64, sha256Hex string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putFunc != nil {
		return f.putFunc(ctx, bucket, object, data, size, md5Base64, sha256Hex, opts)
	}
	return minio.UploadInfo{}, nil
}

func (f *fakeCore) NewMultipartUpload(ctx context.Context, bucket, object string, opts minio.PutObjectOptions) (string, error) {
	if f.newFunc != nil {
		return f.newFunc(ctx, bucket, object, opts)
	}
	return "upload-id", nil
}

func (f *fakeCore) PutObjectPart(ctx context.Context, bucket, object, uploadID string, partID int, data io.Reader, size int64, opts minio.PutObjectPartOptions) (minio.ObjectPart, error) {
	if f.partFunc != nil {
		return f.partFunc(ctx, bucket, object, uploadID, partID, data, size, opts)
	}
	return minio.ObjectPart{PartNumber: partID, ETag: "etag"}, nil
}

func (f *fakeCore) CompleteMultipartUpload(ctx context.Context, bucket, object, uploadID string, parts []minio.CompletePart, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.completeFunc != nil {
		return f.completeFunc(ctx, bucket, object, uploadID, parts, opts)
	}
	return minio.UploadInfo{}, nil
}

func TestWriter_SmallObject_SinglePut(t *testing.T) {
	var putBody []byte
	var putSize int64
	var gotContentType string
	creates := 0

	core := &fakeCore{
		putFunc: func(ctx context.Context, bucket, object string, data io.Reader, size int64, md5Base64, sha256Hex string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			assert.Equal(t, "test-bucket", bucket)
			assert.Equal(t, "small.txt", object)
			var err error
			putBody, err = io.ReadAll(data)
			require.NoError(t, err)
			putSize = size
			gotContentType = opts.ContentType
			return minio.UploadInfo{}, nil
		},
		newFunc: func(ctx context.Context, bucket, object string, opts minio.PutObjectOptions) (string, error) {
			creates++
			return "upload-id", nil
		},
	}

	w := NewWriter(core, "test-bucket", "small.txt", Options{ContentType: "text/plain"})
	n, err := w.Write([]byte("hello minio"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	total, err := w.Finish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)

	assert.Equal(t, []byte("hello minio"), putBody)
	assert.Equal(t, int64(11), putSize)
	assert.Equal(t, "text/plain", gotContentType)
	assert.Equal(t, 0, creates, "small object must not open a multipart session")
}

func TestWriter_NoWrites_ZeroBytePut(t *testing.T) {
	var putSize int64 = -1
	core := &fakeCore{
		putFunc: func(ctx context.Context, bucket, object string, data io.Reader, size int64, md5Base64, sha256Hex string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			putSize = size
			return minio.UploadInfo{}, nil
		},
	}

	w := NewWriter(core, "test-bucket", "empty", Options{})
	total, err := w.Finish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Equal(t, int64(0), putSize)
}

func TestWriter_SplitScenario_Multipart(t *testing.T) {
	var partIDs []int
	var partBodies [][]byte
	var completedParts []minio.CompletePart
	puts := 0

	core := &fakeCore{
		putFunc: func(ctx context.Context, bucket, object string, data io.Reader, size int64, md5Base64, sha256Hex string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			puts++
			return minio.UploadInfo{}, nil
		},
		partFunc: func(ctx context.Context, bucket, object, uploadID string, partID int, data io.Reader, size int64, opts minio.PutObjectPartOptions) (minio.ObjectPart, error) {
			assert.Equal(t, "upload-id", uploadID)
			partIDs = append(partIDs, partID)
			body, err := io.ReadAll(data)
			require.NoError(t, err)
			partBodies = append(partBodies, body)
			return minio.ObjectPart{PartNumber: partID, ETag: "etag"}, nil
		},
		completeFunc: func(ctx context.Context, bucket, object, uploadID string, parts []minio.CompletePart, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			completedParts = parts
			return minio.UploadInfo{}, nil
		},
	}

	w := NewWriter(core, "test-bucket", "big.bin", Options{PartSize: 3 * mb})
	for _, size := range []int{2 * mb, 2 * mb, 1 * mb} {
		_, err := w.Write(bytes.Repeat([]byte{0xAB}, size))
		require.NoError(t, err)
	}

	total, err := w.Finish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5*mb), total)

	assert.Equal(t, 0, puts)
	assert.Equal(t, []int{1, 2}, partIDs)
	require.Len(t, partBodies, 2)
	assert.Len(t, partBodies[0], 4*mb)
	assert.Len(t, partBodies[1], 1*mb)

	require.Len(t, completedParts, 2)
	assert.Equal(t, 1, completedParts[0].PartNumber)
	assert.Equal(t, 2, completedParts[1].PartNumber)
}

func TestWriter_UseAfterFinish(t *testing.T) {
	w := NewWriter(&fakeCore{}, "test-bucket", "obj", Options{})

	_, err := w.Finish(context.Background())
	require.NoError(t, err)

	_, err = w.Write([]byte("late"))
	require.Error(t, err)
	assert.True(t, errors.IsWriterFinished(err))

	_, err = w.Finish(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsWriterFinished(err))
}

func TestWriter_UploadFailures(t *testing.T) {
	tests := []struct {
		name        string
		writes      []int
		core        *fakeCore
		errContains string
	}{
		{
			name:   "single put failure",
			writes: []int{100},
			core: &fakeCore{
				putFunc: func(ctx context.Context, bucket, object string, data io.Reader, size int64, md5Base64, sha256Hex string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
					return minio.UploadInfo{}, assert.AnError
				},
			},
			errContains: "put",
		},
		{
			name:   "session start failure",
			writes: []int{6 * mb},
			core: &fakeCore{
				newFunc: func(ctx context.Context, bucket, object string, opts minio.PutObjectOptions) (string, error) {
					return "", assert.AnError
				},
			},
			errContains: "multipartStart",
		},
		{
			name:   "part failure",
			writes: []int{6 * mb},
			core: &fakeCore{
				partFunc: func(ctx context.Context, bucket, object, uploadID string, partID int, data io.Reader, size int64, opts minio.PutObjectPartOptions) (minio.ObjectPart, error) {
					return minio.ObjectPart{}, assert.AnError
				},
			},
			errContains: "uploadPart",
		},
		{
			name:   "completion failure",
			writes: []int{6 * mb},
			core: &fakeCore{
				completeFunc: func(ctx context.Context, bucket, object, uploadID string, parts []minio.CompletePart, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
					return minio.UploadInfo{}, assert.AnError
				},
			},
			errContains: "multipartComplete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(tt.core, "test-bucket", "obj", Options{PartSize: 5 * mb})
			for _, size := range tt.writes {
				_, err := w.Write(make([]byte, size))
				require.NoError(t, err)
			}

			_, err := w.Finish(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			assert.Contains(t, err.Error(), "test-bucket")
		})
	}
}

var _ io.Writer = (*Writer)(nil)
