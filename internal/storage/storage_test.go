package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 keeps objects in memory and fails the first failures calls
type fakeS3 struct {
	objects  map[string][]byte
	failures int
	calls    int
}

func newFakeS3(failures int) *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte), failures: failures}
}

func (f *fakeS3) fail() error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection reset")
	}
	return nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func testStore(client objectAPI) *Store {
	s := newStore(client, "resumes")
	s.backoff = 0
	return s
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := testStore(newFakeS3(0))

	require.NoError(t, store.Put(ctx, "uploads/cv.pdf", "application/pdf", []byte("%PDF-1.4")))

	data, err := store.Get(ctx, "uploads/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	assert.Equal(t, "resumes", store.Bucket())
}

func TestStore_RetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3(2)
	store := testStore(client)

	require.NoError(t, store.Put(ctx, "cv.txt", "text/plain", []byte("hello")))
	assert.Equal(t, 3, client.calls)
}

func TestStore_GivesUpAfterAttempts(t *testing.T) {
	client := newFakeS3(10)
	store := testStore(client)

	_, err := store.Get(context.Background(), "cv.txt")
	require.Error(t, err)
	assert.Equal(t, DefaultAttempts, client.calls)
	assert.Contains(t, err.Error(), "after 3 attempts: connection reset")
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := retry(ctx, 5, time.Hour, func() (int, error) {
		calls++
		return 0, errors.New("unavailable")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestR2Endpoint(t *testing.T) {
	assert.Equal(t, "https://abc123.r2.cloudflarestorage.com", R2Endpoint("abc123"))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.EqualError(t, err, "storage bucket is required")
}
