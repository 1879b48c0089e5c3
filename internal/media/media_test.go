package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunsmm/diary-network/internal/config"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}

type memStorage struct {
	key, contentType string
	body             []byte
	err              error
	deleted          []string
}

func (m *memStorage) Delete(_ context.Context, ref string) error {
	m.deleted = append(m.deleted, ref)
	return m.err
}

func (m *memStorage) Save(_ context.Context, key string, body io.Reader, _ int64, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.key, m.contentType, m.body = key, contentType, data
	return "mem://" + key, nil
}

func TestUploadStoresImage(t *testing.T) {
	storage := &memStorage{}
	u := NewUploader(storage, 1<<20)
	u.newKey = func() string { return "fixed" }

	ref, err := u.Upload(context.Background(), fileHeader(t, "cat.bin", pngBytes))
	require.NoError(t, err)

	assert.Equal(t, "mem://fixed.png", ref)
	assert.Equal(t, "image/png", storage.contentType)
	assert.Equal(t, pngBytes, storage.body, "the sniffed bytes must be stored too")
}

func TestUploadRejectsNonImage(t *testing.T) {
	u := NewUploader(&memStorage{}, 1<<20)

	_, err := u.Upload(context.Background(), fileHeader(t, "notes.png", []byte("just some text")))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestUploadRejectsLargeFile(t *testing.T) {
	u := NewUploader(&memStorage{}, 8)

	_, err := u.Upload(context.Background(), fileHeader(t, "cat.png", pngBytes))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestUploadWrapsStorageErrors(t *testing.T) {
	u := NewUploader(&memStorage{err: errors.New("disk full")}, 0)

	_, err := u.Upload(context.Background(), fileHeader(t, "cat.gif", []byte("GIF89a\x01\x00\x01\x00")))
	assert.ErrorContains(t, err, "disk full")
}

func TestLocalStorage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "media")
	storage, err := NewLocalStorage(dir, "/media/")
	require.NoError(t, err)

	ref, err := storage.Save(context.Background(), "../abc.png", bytes.NewReader(pngBytes), int64(len(pngBytes)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/abc.png", ref)

	data, err := os.ReadFile(filepath.Join(dir, "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	_, err = storage.Save(context.Background(), "abc.png", bytes.NewReader(pngBytes), 0, "image/png")
	assert.Error(t, err, "existing objects are never overwritten")
}

type fakeS3 struct {
	input   *s3.PutObjectInput
	deleted *s3.DeleteObjectInput
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = params
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage(t *testing.T) {
	client := &fakeS3{}
	storage := &S3Storage{client: client, bucket: "diary", region: "eu-west-1", prefix: "posts/"}

	ref, err := storage.Save(context.Background(), "abc.png", bytes.NewReader(pngBytes), int64(len(pngBytes)), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://diary.s3.eu-west-1.amazonaws.com/posts/abc.png", ref)
	require.NotNil(t, client.input)
	assert.Equal(t, "diary", aws.ToString(client.input.Bucket))
	assert.Equal(t, "posts/abc.png", aws.ToString(client.input.Key))
	assert.Equal(t, "image/png", aws.ToString(client.input.ContentType))
	assert.Equal(t, int64(len(pngBytes)), aws.ToInt64(client.input.ContentLength))
}

func TestNewStorage(t *testing.T) {
	storage, err := NewStorage(context.Background(), config.Media{Backend: "local", Dir: t.TempDir(), BaseURL: "/media"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, storage)

	_, err = NewStorage(context.Background(), config.Media{Backend: "ftp"})
	assert.Error(t, err)
}

func TestUploaderRemove(t *testing.T) {
	storage := &memStorage{}
	u := NewUploader(storage, 0)

	require.NoError(t, u.Remove(context.Background(), "mem://a.png"))
	assert.Equal(t, []string{"mem://a.png"}, storage.deleted)

	storage.err = errors.New("gone away")
	assert.ErrorContains(t, u.Remove(context.Background(), "mem://b.png"), "gone away")
}

func TestLocalStorageDelete(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "/media")
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := storage.Save(ctx, "abc.png", bytes.NewReader(pngBytes), 0, "image/png")
	require.NoError(t, err)

	require.NoError(t, storage.Delete(ctx, ref))
	_, err = os.Stat(filepath.Join(dir, "abc.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.NoError(t, storage.Delete(ctx, ref), "already removed")
	assert.ErrorIs(t, storage.Delete(ctx, "/media/../secret"), ErrForeignRef)
	assert.ErrorIs(t, storage.Delete(ctx, "https://elsewhere/abc.png"), ErrForeignRef)
}

func TestS3StorageDelete(t *testing.T) {
	client := &fakeS3{}
	storage := &S3Storage{client: client, bucket: "diary", region: "eu-west-1", prefix: "posts/"}
	ctx := context.Background()

	require.NoError(t, storage.Delete(ctx, "https://diary.s3.eu-west-1.amazonaws.com/posts/abc.png"))
	require.NotNil(t, client.deleted)
	assert.Equal(t, "diary", aws.ToString(client.deleted.Bucket))
	assert.Equal(t, "posts/abc.png", aws.ToString(client.deleted.Key))

	client.deleted = nil
	assert.ErrorIs(t, storage.Delete(ctx, "https://other.s3.eu-west-1.amazonaws.com/posts/abc.png"), ErrForeignRef)
	assert.ErrorIs(t, storage.Delete(ctx, "https://diary.s3.eu-west-1.amazonaws.com/avatars/abc.png"), ErrForeignRef)
	assert.Nil(t, client.deleted)
}
