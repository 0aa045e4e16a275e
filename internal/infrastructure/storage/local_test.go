package storage

import (
	"context"
	"errors"
	"testing"

	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ref, err := store.Put(ctx, "meetings/abc.mp3", []byte("audio"), "audio/mpeg")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if ref != "local://meetings/abc.mp3" {
		t.Fatalf("unexpected ref %q", ref)
	}

	ok, err := store.Exists(ctx, ref)
	if err != nil || !ok {
		t.Fatalf("expected artifact to exist, ok=%v err=%v", ok, err)
	}

	data, err := store.Get(ctx, ref)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "audio" {
		t.Fatalf("unexpected data %q", data)
	}

	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}

	_, err = store.Get(ctx, ref)
	if !errors.Is(err, usecaseErrors.ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestLocalStoreRejectsBadRefs(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	refs := []string{
		"meetings/abc.mp3",
		"local://../etc/passwd",
		"s3://bucket/meetings/abc.mp3",
		"ftp://host/file",
	}
	for _, ref := range refs {
		t.Run(ref, func(t *testing.T) {
			if _, err := store.Get(ctx, ref); !errors.Is(err, usecaseErrors.ErrInvalidArtifact) {
				t.Fatalf("expected ErrInvalidArtifact, got %v", err)
			}
		})
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref     string
		want    Ref
		wantErr bool
	}{
		{ref: "local://meetings/a.wav", want: Ref{Scheme: "local", Key: "meetings/a.wav"}},
		{ref: "s3://recordings/meetings/a.wav", want: Ref{Scheme: "s3", Bucket: "recordings", Key: "meetings/a.wav"}},
		{ref: "local://./meetings//a.wav", want: Ref{Scheme: "local", Key: "meetings/a.wav"}},
		{ref: "s3://recordings", wantErr: true},
		{ref: "local://", wantErr: true},
		{ref: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParseRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRef() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Fatalf("ParseRef() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
