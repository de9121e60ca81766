package state

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/picklr-io/flydeploy/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Bucket+"/"+*in.Key]; !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestParseS3URL(t *testing.T) {
	bucket, prefix, err := parseS3URL("s3://deploys/acme/prod/")
	require.NoError(t, err)
	assert.Equal(t, "deploys", bucket)
	assert.Equal(t, "acme/prod", prefix)

	_, _, err = parseS3URL("https://deploys/acme")
	assert.Error(t, err)

	_, _, err = parseS3URL("s3:///acme")
	assert.Error(t, err)
}

func TestNewStoreRejectsUnknownScheme(t *testing.T) {
	_, err := NewStore(context.Background(), StoreConfig{WaspDir: "/srv/app", Remote: "gs://bucket"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://")
}

func TestNewStoreDefaultsToLocal(t *testing.T) {
	store, err := NewStore(context.Background(), StoreConfig{WaspDir: "/srv/app"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)
	assert.Equal(t, "/srv/app/fly-server.toml", store.Paths().Server)
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := &s3Store{bucket: "deploys", prefix: "acme", client: fake}

	assert.Equal(t, "s3://deploys/acme/fly-server.toml", store.Paths().Server)
	assert.Equal(t, "s3://deploys/acme/fly-client.toml", store.Paths().Client)

	phase, err := Detect(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, PhaseNone, phase)

	_, err = store.Read(ctx, store.Paths().Server)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Write(ctx, store.Paths().Server, []byte(serverRecord)))
	assert.Contains(t, fake.objects, "deploys/acme/fly-server.toml")

	phase, err = Detect(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, PhaseServerOnly, phase)

	base, err := RecoverBase(ctx, store, identity.Server)
	require.NoError(t, err)
	assert.Equal(t, "acme", base)

	_, err = store.Read(ctx, "s3://other-bucket/fly-server.toml")
	assert.Error(t, err)
}

func TestNewS3StoreDefaults(t *testing.T) {
	store, err := newS3Store(context.Background(), StoreConfig{Remote: "s3://deploys/acme"})
	// May fail on AWS config load in CI without credentials, which is expected
	if err != nil {
		t.Skipf("Skipping S3 store test (no AWS config): %v", err)
	}
	assert.Equal(t, "deploys", store.bucket)
	assert.Equal(t, "acme", store.prefix)
}
