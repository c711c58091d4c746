package repository

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
	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/domain"
)

type fakeObjectAPI struct {
	objects  map[string][]byte
	types    map[string]string
	cid      string
	putErr   error
	putCalls int
}

func newFakeObjectAPI(cid string) *fakeObjectAPI {
	return &fakeObjectAPI{objects: map[string][]byte{}, types: map[string]string{}, cid: cid}
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putCalls++
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, errors.New("not found")
	}
	return &s3.HeadObjectOutput{Metadata: map[string]string{"cid": f.cid}}, nil
}

func TestS3RepositoryRequiresCredentials(t *testing.T) {
	_, err := NewS3Repository(context.Background(), &config.S3Config{BucketName: "b"}, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestS3RepositoryUploadReturnsCID(t *testing.T) {
	api := newFakeObjectAPI(testCID)
	s := NewS3RepositoryWithClient(api, "properties", zap.NewNop())

	id, err := s.Upload(context.Background(), []byte("pdf"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, testCID, id)

	require.Len(t, api.objects, 1)
	for key, data := range api.objects {
		assert.True(t, strings.HasPrefix(key, "files/"))
		assert.True(t, strings.HasSuffix(key, ".pdf"))
		assert.Equal(t, []byte("pdf"), data)
		assert.Equal(t, "application/pdf", api.types[key])
	}
}

func TestS3RepositoryUploadJSON(t *testing.T) {
	api := newFakeObjectAPI(testCID)
	s := NewS3RepositoryWithClient(api, "properties", zap.NewNop())

	id, err := s.UploadJSON(context.Background(), map[string]string{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, testCID, id)

	for key, data := range api.objects {
		assert.True(t, strings.HasPrefix(key, "metadata/"))
		assert.JSONEq(t, `{"name":"x"}`, string(data))
		assert.Equal(t, "application/json", api.types[key])
	}
}

func TestS3RepositoryErrors(t *testing.T) {
	api := newFakeObjectAPI(testCID)
	api.putErr = errors.New("access denied")
	s := NewS3RepositoryWithClient(api, "properties", zap.NewNop())

	_, err := s.Upload(context.Background(), []byte("x"), "")
	assert.ErrorIs(t, err, domain.ErrUploadFailed)

	api = newFakeObjectAPI("")
	s = NewS3RepositoryWithClient(api, "properties", zap.NewNop())

	_, err = s.Upload(context.Background(), []byte("x"), "")
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}
