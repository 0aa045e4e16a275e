package storage

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
)

// LocalStore keeps artifacts on the local filesystem under a root directory
type LocalStore struct {
	root string
}

// NewLocalStore creates the root directory if needed
func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

// Put writes data under name and returns a local:// reference
func (s *LocalStore) Put(ctx context.Context, name string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := cleanKey(name)
	if err != nil {
		return "", err
	}

	full := s.path(key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	// Write to a temp file first so readers never observe a partial artifact.
	tmp := full + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("commit artifact: %w", err)
	}

	return Ref{Scheme: schemeLocal, Key: key}.String(), nil
}

// Get reads the artifact behind ref
func (s *LocalStore) Get(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := s.key(ref)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", usecaseErrors.ErrArtifactNotFound, ref)
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}

// Delete removes the artifact; deleting a missing artifact is not an error
func (s *LocalStore) Delete(_ context.Context, ref string) error {
	key, err := s.key(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !stdErrors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete artifact: %w", err)
	}
	return nil
}

// Exists reports whether the artifact is present
func (s *LocalStore) Exists(_ context.Context, ref string) (bool, error) {
	key, err := s.key(ref)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(s.path(key))
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (s *LocalStore) key(ref string) (string, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	if r.Scheme != schemeLocal {
		return "", fmt.Errorf("%w: %q is not a local reference", usecaseErrors.ErrInvalidArtifact, ref)
	}
	return r.Key, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}
