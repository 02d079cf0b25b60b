package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
)

func TestNewMinioStorage(t *testing.T) {
	s, err := NewMinioStorage("localhost:9000", "minio", "minio123", "media", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.bucket != "media" {
		t.Errorf("bucket mismatch: got %q", s.bucket)
	}
	if s.presignExpiration != 15*time.Minute {
		t.Errorf("default presign expiration should be 15 minutes, got %v", s.presignExpiration)
	}
}

func TestMinioStorage_PathValidation(t *testing.T) {
	s, err := NewMinioStorage("localhost:9000", "minio", "minio123", "media", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	for _, path := range []string{"", "../../etc/passwd", "/absolute/path.txt"} {
		if err := s.Upload(ctx, path, strings.NewReader("x")); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Upload(%q) = %v, want ErrInvalidPath", path, err)
		}
		if _, err := s.Download(ctx, path); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Download(%q) = %v, want ErrInvalidPath", path, err)
		}
		if _, err := s.Exists(ctx, path); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Exists(%q) = %v, want ErrInvalidPath", path, err)
		}
	}
}

func TestIsMinioNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey"}, true},
		{"not found", minio.ErrorResponse{Code: "NotFound"}, true},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied"}, false},
		{"generic error", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isMinioNotFound(tt.err); got != tt.want {
				t.Errorf("isMinioNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
