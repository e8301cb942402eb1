package media

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GCSStore implements Store on a Google Cloud Storage bucket. Objects are
// stored extensionless under "upload/<kind>/<owner>/<name>" so the id
// derived from the public URL addresses the object directly.
type GCSStore struct {
	bucket     *storage.BucketHandle
	bucketName string
	log        *logrus.Logger
}

// NewGCSStore creates a media store on the given bucket
func NewGCSStore(bucket *storage.BucketHandle, bucketName string, log *logrus.Logger) *GCSStore {
	return &GCSStore{bucket: bucket, bucketName: bucketName, log: log}
}

// Upload writes the asset and returns its public URL and resource type
func (s *GCSStore) Upload(ctx context.Context, data []byte, contentType string, ownerID uint, kind string) (*UploadResult, error) {
	if kind != KindPublication && kind != KindStory {
		return nil, fmt.Errorf("unknown upload kind %q", kind)
	}

	objectName := fmt.Sprintf("upload/%s/%d/%s", kind, ownerID, uuid.NewString())

	w := s.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("writing object %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing object %s: %w", objectName, err)
	}

	return &UploadResult{
		URL:  fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectName),
		Type: TypeForContentType(contentType),
	}, nil
}

// Delete removes the asset addressed by a derived id. A missing object is
// not an error; the asset may already be gone.
func (s *GCSStore) Delete(ctx context.Context, assetID string, resourceType string) error {
	if assetID == "" {
		return nil
	}
	objectName := "upload/" + assetID
	err := s.bucket.Object(objectName).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		s.log.WithFields(logrus.Fields{
			"object": objectName,
			"type":   resourceType,
		}).Debug("media delete: object already absent")
		return nil
	}
	return err
}
