package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// Environment variables holding lookaside cache credentials.
const (
	EnvLookasideAccessKey = "REBASE_HELPER_LOOKASIDE_ACCESS_KEY"
	EnvLookasideSecretKey = "REBASE_HELPER_LOOKASIDE_SECRET_KEY"
)

// LookasideUploader stores new source archives in the lookaside cache.
//
//go:generate mockgen -source=lookaside.go -destination=lookaside_mock_test.go -package=core
type LookasideUploader interface {
	Upload(ctx context.Context, pkg, file string, sum SourceChecksum) error
}

// S3Lookaside uploads to an S3-compatible lookaside cache. Objects are
// keyed the way dist-git lays them out: pkg/file/sha512/sum/file.
type S3Lookaside struct {
	client *minio.Client
	bucket string
	log    *logger.Logger
}

// NewS3Lookaside connects to the cache at rawURL.
func NewS3Lookaside(rawURL, bucket string, log *logger.Logger) (*S3Lookaside, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid lookaside url %q", rawURL)
	}
	access, secret := os.Getenv(EnvLookasideAccessKey), os.Getenv(EnvLookasideSecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("lookaside credentials missing: set %s and %s", EnvLookasideAccessKey, EnvLookasideSecretKey)
	}
	if bucket == "" {
		return nil, errors.New("lookaside bucket is required")
	}

	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("init lookaside client: %w", err)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &S3Lookaside{client: client, bucket: bucket, log: log.WithComponent("lookaside")}, nil
}

var _ LookasideUploader = (*S3Lookaside)(nil)

// LookasideKey returns the object key of file in the cache.
func LookasideKey(pkg string, sum SourceChecksum) string {
	return path.Join(pkg, sum.Filename, strings.ToLower(sum.Algorithm), sum.Sum, sum.Filename)
}

// Upload stores file unless an object with the same checksum exists.
func (l *S3Lookaside) Upload(ctx context.Context, pkg, file string, sum SourceChecksum) error {
	key := LookasideKey(pkg, sum)
	if _, err := l.client.StatObject(ctx, l.bucket, key, minio.StatObjectOptions{}); err == nil {
		l.log.Info("already in lookaside cache", "file", sum.Filename)
		return nil
	} else if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("stat %s: %w", key, err)
	}

	info, err := l.client.FPutObject(ctx, l.bucket, key, file, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", filepath.Base(file), err)
	}
	l.log.Info("uploaded to lookaside cache", "file", sum.Filename, "bytes", info.Size)
	return nil
}
