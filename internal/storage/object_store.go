package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"peysphotos/api/internal/config"
	"peysphotos/api/internal/models"
)

type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.Bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.Bucket, err)
		}
	}
	return nil
}

type UploadInput struct {
	// Folder is the resolved category path, e.g. "peysphotos/travel/iceland".
	Folder      string
	PublicID    string
	Kind        models.MediaKind
	ContentType string
	Format      string
	Data        []byte
}

type UploadResult struct {
	AssetID      string
	URL          string
	Format       string
	SizeBytes    int64
	Width        int
	Height       int
	ThumbnailURL string
}

// Upload transmits one asset and returns its complete metadata, or fails with
// a classified error and no dangling remote object. The host applies a single
// PutObject atomically.
func (s *ObjectStore) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	if len(in.Data) == 0 {
		return UploadResult{}, &StoreError{Op: "upload", Class: ClassInvalid, Err: fmt.Errorf("empty payload")}
	}

	assetID := path.Join(in.Folder, fmt.Sprintf("%s.%s", in.PublicID, in.Format))

	options := minio.PutObjectOptions{
		ContentType: in.ContentType,
		// The host's ingest hook reads this flag and stores an optimized
		// rendition alongside the original, so display URLs never need
		// per-request transforms.
		UserMetadata: map[string]string{"auto-optimize": "eager"},
	}

	info, err := s.client.PutObject(ctx, s.cfg.Bucket, assetID, bytes.NewReader(in.Data), int64(len(in.Data)), options)
	if err != nil {
		return UploadResult{}, classify("upload", err)
	}

	result := UploadResult{
		AssetID:   assetID,
		URL:       s.PublicURL(assetID),
		Format:    in.Format,
		SizeBytes: info.Size,
	}
	if in.Kind == models.MediaKindVideo {
		result.ThumbnailURL = s.ThumbnailURL(assetID)
	}
	return result, nil
}

// Delete removes a remote asset. A missing key counts as success so the
// compensator and the deletion pipeline stay idempotent.
func (s *ObjectStore) Delete(ctx context.Context, assetID string) error {
	err := s.client.RemoveObject(ctx, s.cfg.Bucket, assetID, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil
		}
		return classify("delete", err)
	}
	return nil
}

type RemoteObject struct {
	AssetID      string
	SizeBytes    int64
	LastModified time.Time
}

// List returns every object under folder, recursing into subfolders. Used by
// the legacy video scan and the reconciliation sweep.
func (s *ObjectStore) List(ctx context.Context, folder string) ([]RemoteObject, error) {
	prefix := strings.TrimSuffix(folder, "/") + "/"

	var objects []RemoteObject
	for obj := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, classify("list", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		objects = append(objects, RemoteObject{AssetID: obj.Key, SizeBytes: obj.Size, LastModified: obj.LastModified})
	}
	return objects, nil
}

func (s *ObjectStore) Ping(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.cfg.Bucket); err != nil {
		return classify("ping", err)
	}
	return nil
}

func (s *ObjectStore) PublicURL(assetID string) string {
	base := s.cfg.PublicBaseURL
	if base == "" {
		base = s.cfg.Endpoint
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	if s.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", base, assetID)
	}
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.Bucket, assetID)
}

// ThumbnailURL maps a video key onto the host's poster-frame derivative,
// which it serves for the same key re-requested with a jpg extension.
func (s *ObjectStore) ThumbnailURL(assetID string) string {
	ext := path.Ext(assetID)
	return s.PublicURL(strings.TrimSuffix(assetID, ext) + ".jpg")
}
