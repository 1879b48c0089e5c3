// Package media validates and stores the images attached to posts.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/tunsmm/diary-network/internal/config"
)

var (
	ErrNotImage   = errors.New("uploaded file is not a supported image")
	ErrTooLarge   = errors.New("uploaded file is too large")
	ErrForeignRef = errors.New("reference does not belong to this storage")
)

// allowedTypes are the image formats accepted for posts.
var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Storage persists an uploaded object and returns the reference stored on
// the post. Delete takes such a reference back.
type Storage interface {
	Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

type Uploader struct {
	storage  Storage
	maxBytes int64
	newKey   func() string
}

func NewUploader(storage Storage, maxBytes int64) *Uploader {
	return &Uploader{storage: storage, maxBytes: maxBytes, newKey: uuid.NewString}
}

// Detect sniffs the content type of r and rejects anything that is not an
// allowed image.
func Detect(r io.Reader) (*mimetype.MIME, error) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	for _, allowed := range allowedTypes {
		if mtype.Is(allowed) {
			return mtype, nil
		}
	}
	return nil, ErrNotImage
}

// Upload validates fh and hands it to the storage backend.
func (u *Uploader) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if u.maxBytes > 0 && fh.Size > u.maxBytes {
		return "", ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mtype, err := Detect(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	key := u.newKey() + mtype.Extension()
	ref, err := u.storage.Save(ctx, key, f, fh.Size, mtype.String())
	if err != nil {
		return "", fmt.Errorf("store image %s: %w", key, err)
	}
	return ref, nil
}

// Remove deletes a previously uploaded image by the reference Upload returned.
func (u *Uploader) Remove(ctx context.Context, ref string) error {
	if err := u.storage.Delete(ctx, ref); err != nil {
		return fmt.Errorf("remove image %s: %w", ref, err)
	}
	return nil
}

// NewStorage builds the backend selected by cfg.Backend.
func NewStorage(ctx context.Context, cfg config.Media) (Storage, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix)
	case "", "local":
		return NewLocalStorage(cfg.Dir, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}
