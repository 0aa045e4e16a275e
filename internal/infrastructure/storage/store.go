package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

const (
	schemeLocal = "local"
	schemeS3    = "s3"
)

// ArtifactStore is path-addressed binary storage for meeting recordings.
// References are opaque strings produced by Put.
type ArtifactStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
	Exists(ctx context.Context, ref string) (bool, error)
}

// New builds the artifact store selected by configuration
func New(ctx context.Context, cfg config.StorageConfig) (ArtifactStore, error) {
	switch cfg.Type {
	case "local":
		store, err := NewLocalStore(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "minio":
		store, err := NewMinIOClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// Ref is a parsed artifact reference
type Ref struct {
	Scheme string
	Bucket string // empty for local refs
	Key    string
}

func (r Ref) String() string {
	if r.Bucket != "" {
		return r.Scheme + "://" + r.Bucket + "/" + r.Key
	}
	return r.Scheme + "://" + r.Key
}

// ParseRef splits "local://key" and "s3://bucket/key" references
func ParseRef(ref string) (Ref, error) {
	scheme, rest, ok := strings.Cut(ref, "://")
	if !ok || rest == "" {
		return Ref{}, fmt.Errorf("%w: %q", usecaseErrors.ErrInvalidArtifact, ref)
	}

	switch scheme {
	case schemeLocal:
		key, err := cleanKey(rest)
		if err != nil {
			return Ref{}, err
		}
		return Ref{Scheme: scheme, Key: key}, nil
	case schemeS3:
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" {
			return Ref{}, fmt.Errorf("%w: %q", usecaseErrors.ErrInvalidArtifact, ref)
		}
		key, err := cleanKey(key)
		if err != nil {
			return Ref{}, err
		}
		return Ref{Scheme: scheme, Bucket: bucket, Key: key}, nil
	default:
		return Ref{}, fmt.Errorf("%w: unknown scheme %q", usecaseErrors.ErrInvalidArtifact, scheme)
	}
}

// cleanKey normalizes an object key and rejects keys escaping the root
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(key))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("%w: empty key", usecaseErrors.ErrInvalidArtifact)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: key %q escapes storage root", usecaseErrors.ErrInvalidArtifact, key)
		}
	}
	return cleaned, nil
}
