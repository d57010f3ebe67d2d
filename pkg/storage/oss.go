package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
)

// OSSStore stores blobs in an Aliyun OSS bucket.
type OSSStore struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	publicBase string
	prefix     string
	logger     *zap.Logger
}

// NewOSSStore connects to the configured bucket.
func NewOSSStore(cfg *config.StorageConfig, logger *zap.Logger) (*OSSStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, errors.New("storage: oss endpoint, bucket and keys are required")
	}
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	logger.Info("oss bucket ready", zap.String("bucket", cfg.Bucket), zap.String("endpoint", cfg.Endpoint))
	return &OSSStore{
		bucket:     bkt,
		endpoint:   cfg.Endpoint,
		bucketName: cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		prefix:     cfg.Prefix,
		logger:     logger,
	}, nil
}

// Upload puts the object under folder with a millisecond timestamp prefix.
func (s *OSSStore) Upload(ctx context.Context, in UploadInput) (*Object, error) {
	key := objectKey(s.prefix, in.Folder, in.FileName, time.Now())
	ct := in.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(ct),
		oss.ContentDisposition("attachment; filename*=UTF-8''" + url.PathEscape(in.FileName)),
	}
	if err := s.bucket.PutObject(key, in.Body, opts...); err != nil {
		return nil, fmt.Errorf("oss put %s: %w", key, err)
	}
	return &Object{ID: key, URL: s.publicURL(key)}, nil
}

// Delete removes the object; a missing key is not an error.
func (s *OSSStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	err := s.bucket.DeleteObject(id, oss.WithContext(ctx))
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("oss delete %s: %w", id, err)
	}
	return nil
}

func (s *OSSStore) publicURL(key string) string {
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, end, key)
}

func isNotFound(err error) bool {
	var se oss.ServiceError
	if errors.As(err, &se) {
		return se.StatusCode == 404
	}
	return false
}
