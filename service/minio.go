package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joshuadevelopsgames/LECRM-dev/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// FileService archives raw LMN export uploads and generated scorecard
// CSVs in object storage.
type FileService struct {
	client *minio.Client
	bucket string
	config *config.Minio
}

func NewFileService(cfg *config.Minio) (*FileService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &FileService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *FileService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// ArchiveImportFile stores a raw uploaded LMN export under the import id.
func (s *FileService) ArchiveImportFile(ctx context.Context, importID, filename string, reader io.Reader, size int64) (string, error) {
	objectName := fmt.Sprintf("imports/%s/%s", importID, filename)
	if err := s.upload(ctx, objectName, reader, size, "text/csv"); err != nil {
		return "", err
	}
	return objectName, nil
}

// ArchiveScorecard stores a generated scorecard CSV and returns its
// object name.
func (s *FileService) ArchiveScorecard(ctx context.Context, filename, csvContent string) (string, error) {
	objectName := "scorecards/" + filename
	reader := strings.NewReader(csvContent)
	if err := s.upload(ctx, objectName, reader, int64(reader.Len()), "text/csv"); err != nil {
		return "", err
	}
	return objectName, nil
}

func (s *FileService) upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// GetPresignedURL generates a presigned URL for the object with expiration
func (s *FileService) GetPresignedURL(ctx context.Context, objectName string) (string, error) {
	expiry := time.Duration(s.config.ExpireDays) * 24 * time.Hour
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// DeleteFile deletes a file from storage
func (s *FileService) DeleteFile(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
