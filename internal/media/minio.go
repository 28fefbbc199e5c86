// Package media stores uploaded attachment files in an S3-compatible
// object store and hands back public URLs for them.
package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"ahmo/internal/config"
	"ahmo/internal/util"
)

// Descriptor identifies a stored object. PublicID is the object key used
// for later deletion; ThumbnailURL is set only for kinds a thumbnail was
// stored for.
type Descriptor struct {
	URL          string
	PublicID     string
	ThumbnailURL string
}

type Uploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewUploader(cfg config.Config) (*Uploader, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}
	return &Uploader{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimSuffix(cfg.MinioPublicURL, "/"),
	}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// Upload stores one file under boards/<boardID>/<year>/<month>/<id><ext>.
// The original filename survives only as object metadata.
func (u *Uploader) Upload(ctx context.Context, boardID, fileName string, file io.Reader, size int64) (Descriptor, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now().UTC()
	objectName := fmt.Sprintf("boards/%s/%d/%02d/%s%s",
		boardID, now.Year(), now.Month(), util.NewID("file"), ext)

	_, err := u.client.PutObject(ctx, u.bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"board-id":          boardID,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return Descriptor{}, fmt.Errorf("store object: %w", err)
	}

	return Descriptor{
		URL:      fmt.Sprintf("%s/%s/%s", u.publicURL, u.bucket, objectName),
		PublicID: objectName,
	}, nil
}

// Delete removes a stored object by its public id. Missing objects are not
// an error.
func (u *Uploader) Delete(ctx context.Context, publicID string) error {
	err := u.client.RemoveObject(ctx, u.bucket, publicID, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
