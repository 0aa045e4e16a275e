package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

// MinIOClient stores artifacts in a MinIO / S3 bucket
type MinIOClient struct {
	client *minio.Client
	bucket string
}

// NewMinIOClient creates a new MinIO client and makes sure the bucket exists
func NewMinIOClient(ctx context.Context, cfg config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &MinIOClient{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

// ensureBucket creates the bucket when missing. Recordings stay private.
func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Put uploads data as objectName and returns an s3:// reference
func (m *MinIOClient) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key, err := cleanKey(name)
	if err != nil {
		return "", err
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return Ref{Scheme: schemeS3, Bucket: m.bucket, Key: key}.String(), nil
}

// Get downloads the object behind ref
func (m *MinIOClient) Get(ctx context.Context, ref string) ([]byte, error) {
	r, err := m.ref(ref)
	if err != nil {
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, r.Bucket, r.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.translate(ref, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, m.translate(ref, err)
	}
	return data, nil
}

// Delete removes the object; S3 treats missing keys as success
func (m *MinIOClient) Delete(ctx context.Context, ref string) error {
	r, err := m.ref(ref)
	if err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, r.Bucket, r.Key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists reports whether the object is present
func (m *MinIOClient) Exists(ctx context.Context, ref string) (bool, error) {
	r, err := m.ref(ref)
	if err != nil {
		return false, err
	}
	if _, err := m.client.StatObject(ctx, r.Bucket, r.Key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

func (m *MinIOClient) ref(ref string) (Ref, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return Ref{}, err
	}
	if r.Scheme != schemeS3 {
		return Ref{}, fmt.Errorf("%w: %q is not an s3 reference", usecaseErrors.ErrInvalidArtifact, ref)
	}
	return r, nil
}

func (m *MinIOClient) translate(ref string, err error) error {
	if isNoSuchKey(err) {
		return fmt.Errorf("%w: %s", usecaseErrors.ErrArtifactNotFound, ref)
	}
	return fmt.Errorf("failed to read object: %w", err)
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
