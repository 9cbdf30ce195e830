package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	f.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3Backend(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	b := newS3Backend(fake, "models", "netsim")

	require.NoError(t, b.Put(ctx, "objects/abc", []byte("data")))
	assert.Contains(t, fake.objects, "models/netsim/objects/abc")

	got, err := b.Get(ctx, "objects/abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	ok, err := b.Exists(ctx, "objects/abc")
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("missing key", func(t *testing.T) {
		_, err := b.Get(ctx, "objects/none")
		assert.True(t, errors.Is(err, ErrNotFound))
		ok, err := b.Exists(ctx, "objects/none")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put failure is wrapped", func(t *testing.T) {
		boom := errors.New("access denied")
		failing := newFakeS3()
		failing.failPut = boom
		err := newS3Backend(failing, "models", "").Put(ctx, "k", nil)
		assert.True(t, errors.Is(err, boom))
	})

	t.Run("bucket is required", func(t *testing.T) {
		_, err := NewS3Backend(ctx, S3Options{})
		assert.Error(t, err)
	})
}
