package imageproxy

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	getInput  *s3.GetObjectInput
	headInput *s3.HeadObjectInput
	err       error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.getInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader("img")),
		ContentType:   aws.String("image/webp"),
		ContentLength: aws.Int64(3),
		ETag:          aws.String(`"e1"`),
	}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.headInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.HeadObjectOutput{
		ContentType:   aws.String("image/webp"),
		ContentLength: aws.Int64(3),
	}, nil
}

func TestS3Store_Get(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Store(client, "editor-images")

	obj, err := store.Get(context.Background(), "posts/1.webp")
	require.NoError(t, err)
	defer obj.Body.Close()

	assert.Equal(t, "editor-images", aws.ToString(client.getInput.Bucket))
	assert.Equal(t, "posts/1.webp", aws.ToString(client.getInput.Key))
	assert.Equal(t, "image/webp", obj.ContentType)
	assert.EqualValues(t, 3, obj.ContentLength)
	assert.Equal(t, `"e1"`, obj.ETag)

	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "img", string(body))
}

func TestS3Store_Head(t *testing.T) {
	client := &fakeS3{}
	obj, err := NewS3Store(client, "b").Head(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, obj.Body)
	assert.Equal(t, "k", aws.ToString(client.headInput.Key))
}

func TestS3Store_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound bool
	}{
		{name: "no such key", err: &types.NoSuchKey{}, notFound: true},
		{name: "head not found", err: &types.NotFound{}, notFound: true},
		{name: "generic code", err: &smithy.GenericAPIError{Code: "NoSuchKey"}, notFound: true},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}},
		{name: "network", err: errors.New("dial tcp: timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewS3Store(&fakeS3{err: tt.err}, "b")

			_, err := store.Get(context.Background(), "k")
			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrObjectNotFound))

			_, err = store.Head(context.Background(), "k")
			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrObjectNotFound))
		})
	}
}
