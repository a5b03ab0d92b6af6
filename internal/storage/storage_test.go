package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medintake/config"
)

func TestMemoryStore_UploadOverwritesSameKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("bucket")

	h, err := store.Upload(ctx, "doctorProfilePictures/pic.png", bytes.NewReader([]byte("one")), 3, "image/png")
	require.NoError(t, err)
	_, err = store.Upload(ctx, "doctorProfilePictures/pic.png", bytes.NewReader([]byte("two")), 3, "image/png")
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	obj, ok := store.Object("doctorProfilePictures/pic.png")
	require.True(t, ok)
	assert.Equal(t, []byte("two"), obj.Data)

	url, err := store.RetrievalURL(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, "memory://bucket/doctorProfilePictures/pic.png", url)
}

func TestMemoryStore_RetrievalURLUnknownKey(t *testing.T) {
	store := NewMemoryStore("bucket")
	_, err := store.RetrievalURL(context.Background(), Handle{Bucket: "bucket", Key: "missing"})
	assert.Error(t, err)
}

func TestPublicURL_EscapesSegments(t *testing.T) {
	assert.Equal(t,
		"https://cdn.example.com/doctorProfilePictures/my%20pic.png",
		publicURL("https://cdn.example.com/", "doctorProfilePictures/my pic.png"),
	)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Store_Upload(t *testing.T) {
	client := new(mockS3)
	store := newS3Store(client, config.S3Config{Bucket: "photos", Region: "eu-west-1"}, zap.NewNop())

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "photos" && *in.Key == "doctorProfilePictures/pic.png" && *in.ContentType == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	h, err := store.Upload(context.Background(), "doctorProfilePictures/pic.png", bytes.NewReader([]byte("png")), 3, "image/png")
	require.NoError(t, err)
	client.AssertExpectations(t)

	url, err := store.RetrievalURL(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, "https://photos.s3.eu-west-1.amazonaws.com/doctorProfilePictures/pic.png", url)
}

func TestS3Store_UploadError(t *testing.T) {
	client := new(mockS3)
	store := newS3Store(client, config.S3Config{Bucket: "photos"}, zap.NewNop())
	cause := errors.New("access denied")

	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, cause).Once()

	_, err := store.Upload(context.Background(), "k", io.LimitReader(bytes.NewReader(nil), 0), 0, "")
	assert.ErrorIs(t, err, cause)
}

func TestS3Store_PublicURL(t *testing.T) {
	store := newS3Store(new(mockS3), config.S3Config{Bucket: "photos", PublicURL: "https://cdn.example.com"}, zap.NewNop())

	url, err := store.RetrievalURL(context.Background(), Handle{Bucket: "photos", Key: "doctorProfilePictures/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/doctorProfilePictures/a.png", url)
}
