// Package storage uploads event and profile pictures to S3-compatible
// object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const MaxPictureSize = 10 << 20

var (
	ErrTooLarge        = errors.New("file size exceeds 10MB limit")
	ErrTypeNotAllowed  = errors.New("file type not allowed")
	allowedPictureType = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
)

// Config holds the object storage connection settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Uploader stores pictures in a single bucket
type Uploader struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewUploader connects to the object store and makes sure the bucket exists
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", cfg.Bucket, err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket),
	}, nil
}

// UploadPicture stores r under prefix and returns its public URL
func (u *Uploader) UploadPicture(ctx context.Context, prefix, filename, contentType string, size int64, r io.Reader) (string, error) {
	if err := CheckPicture(contentType, size); err != nil {
		return "", err
	}
	name := ObjectName(prefix, filename)
	_, err := u.client.PutObject(ctx, u.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", name, err)
	}
	return u.baseURL + "/" + name, nil
}

// CheckPicture validates the declared type and size of an upload
func CheckPicture(contentType string, size int64) error {
	if size > MaxPictureSize {
		return ErrTooLarge
	}
	if !allowedPictureType[strings.ToLower(contentType)] {
		return ErrTypeNotAllowed
	}
	return nil
}

// ObjectName builds a collision-free key keeping the original extension
func ObjectName(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strings.Trim(prefix, "/") + "/" + uuid.NewString() + ext
}
