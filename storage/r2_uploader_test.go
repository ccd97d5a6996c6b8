package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putKey  string
	putType string
	body    string
	deleted string
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.putKey = aws.ToString(params.Key)
	f.putType = aws.ToString(params.ContentType)
	b, _ := io.ReadAll(params.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = aws.ToString(params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestUploader_Upload(t *testing.T) {
	api := &fakeS3{}
	u := newUploader(api, "brackets", "https://cdn.example.com/files")
	key := BracketSnapshotKey(12, "run-1")

	res, err := u.Upload(context.Background(), key, "application/json", strings.NewReader(`{"ok":true}`))

	require.NoError(t, err)
	assert.Equal(t, "brackets/tournament_12/run-1.json", api.putKey)
	assert.Equal(t, "application/json", api.putType)
	assert.Equal(t, `{"ok":true}`, api.body)
	assert.Equal(t, "abc123", res.ETag)
	assert.Equal(t, "https://cdn.example.com/files/brackets/tournament_12/run-1.json", res.Location)
}

func TestUploader_Errors(t *testing.T) {
	u := newUploader(&fakeS3{err: errors.New("boom")}, "b", "")

	_, err := u.Upload(context.Background(), "k", "text/plain", strings.NewReader("x"))
	assert.ErrorContains(t, err, "key: k")
	assert.Error(t, u.Delete(context.Background(), "k"))
}

func TestUploader_GetPublicURL(t *testing.T) {
	assert.Equal(t, "", newUploader(nil, "b", "").GetPublicURL("a.json"))
	assert.Equal(t, "https://cdn.example.com/a.json", newUploader(nil, "b", "https://cdn.example.com").GetPublicURL("/a.json"))
	assert.Equal(t, "https://cdn.example.com/x/a.json", newUploader(nil, "b", "https://cdn.example.com/x/").GetPublicURL("a.json"))
}

func TestNewCloudflareR2Uploader_Validation(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{BucketName: "b"})
	assert.Error(t, err)

	_, err = NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{
		AccessKeyID: "id", SecretAccessKey: "secret", BucketName: "b",
	})
	assert.Error(t, err)

	assert.False(t, CloudflareR2UploaderConfig{}.Enabled())
	assert.True(t, CloudflareR2UploaderConfig{AccessKeyID: "id", BucketName: "b"}.Enabled())
}
