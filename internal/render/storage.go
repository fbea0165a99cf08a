package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectAPI is the part of the MinIO client the store uses.
//
//go:generate mockgen -source=storage.go -destination=storage_mock.go -package=render
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expiry time.Duration) (*url.URL, error)
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

// Storage keeps rendered documents and payment proofs in an S3-compatible
// bucket and hands out presigned URLs for them.
type Storage struct {
	client ObjectAPI
	bucket string
	expiry time.Duration
}

func NewStorage(cfg StorageConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object storage client: %w", err)
	}

	return NewStorageWithClient(client, cfg.Bucket, cfg.URLExpiry), nil
}

func NewStorageWithClient(client ObjectAPI, bucket string, expiry time.Duration) *Storage {
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}

	return &Storage{client: client, bucket: bucket, expiry: expiry}
}

func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", s.bucket, err)
	}

	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", s.bucket, err)
	}

	return nil
}

// Put uploads data under key and returns a presigned download URL.
func (s *Storage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	return s.URL(ctx, key)
}

func (s *Storage) URL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presigning %s: %w", key, err)
	}

	return u.String(), nil
}

// ProofUpload is where a payer uploads proof of a bank transfer.
type ProofUpload struct {
	UploadURL string    `json:"upload_url"`
	ProofURL  string    `json:"proof_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProofUpload presigns an upload slot for a payment's proof of transfer.
// ProofURL is what the payer submits once the upload is done.
func (s *Storage) ProofUpload(ctx context.Context, reference, filename string, now time.Time) (*ProofUpload, error) {
	key := path.Join("proofs", reference, fmt.Sprintf("%d%s", now.UnixMilli(), path.Ext(filename)))

	put, err := s.client.PresignedPutObject(ctx, s.bucket, key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presigning upload for %s: %w", reference, err)
	}

	get, err := s.URL(ctx, key)
	if err != nil {
		return nil, err
	}

	return &ProofUpload{UploadURL: put.String(), ProofURL: get, ExpiresAt: now.Add(s.expiry)}, nil
}
