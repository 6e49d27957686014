package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"sownmark/internal/config"
)

const imagePrefix = "blog-images"

// ErrUnsupportedImage is returned for anything other than jpeg, png or gif.
var ErrUnsupportedImage = errors.New("only image files (jpeg, jpg, png, gif) are allowed")

var imageTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

type Storage interface {
	UploadImage(ctx context.Context, fileName, contentType string, file io.Reader, size int64) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
}

type MinIOClient struct {
	client *minio.Client
	config config.MinIO
	now    func() time.Time
}

func NewMinIOClient(cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	return &MinIOClient{client: client, config: cfg, now: time.Now}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.config.BucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", m.config.BucketName, err)
	}
	if exists {
		return nil
	}

	err = m.client.MakeBucket(ctx, m.config.BucketName, minio.MakeBucketOptions{Region: m.config.Region})
	if err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", m.config.BucketName, err)
	}
	return nil
}

// ValidateImage checks the file extension and the declared content type and
// returns the normalized extension.
func ValidateImage(fileName, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	expected, ok := imageTypes[ext]
	if !ok {
		return "", ErrUnsupportedImage
	}

	// a missing content type is tolerated, a mismatching one is not
	if contentType != "" && !strings.EqualFold(strings.TrimSpace(strings.Split(contentType, ";")[0]), expected) {
		return "", ErrUnsupportedImage
	}

	return ext, nil
}

// ObjectName builds blog-images/<yyyy>/<mm>/<id><ext>.
func ObjectName(now time.Time, id, ext string) string {
	return fmt.Sprintf("%s/%d/%02d/%s%s", imagePrefix, now.Year(), now.Month(), id, ext)
}

func (m *MinIOClient) UploadImage(ctx context.Context, fileName, contentType string, file io.Reader, size int64) (string, string, error) {
	ext, err := ValidateImage(fileName, contentType)
	if err != nil {
		return "", "", err
	}

	now := m.now()
	objectName := ObjectName(now, uuid.New().String(), ext)

	_, err = m.client.PutObject(ctx, m.config.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: imageTypes[ext],
			UserMetadata: map[string]string{
				"x-amz-acl":         "public-read",
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}

	return objectName, m.PublicURL(objectName), nil
}

// ObjectNameFromURL recovers the object name from a public image URL, or ""
// when the URL does not point at an uploaded blog image.
func ObjectNameFromURL(imageURL string) string {
	i := strings.Index(imageURL, "/"+imagePrefix+"/")
	if i < 0 {
		return ""
	}
	return imageURL[i+1:]
}

// PublicURL prefers the configured CDN/base URL and falls back to the
// virtual-hosted bucket address.
func (m *MinIOClient) PublicURL(objectName string) string {
	if base := strings.TrimSuffix(m.config.PublicBaseURL, "/"); base != "" {
		return base + "/" + objectName
	}

	scheme := "http"
	if m.config.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, m.config.BucketName, m.config.Endpoint, objectName)
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.BucketName, objectName,
		minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
