package storage

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestExportKeyIsScopedToUser(t *testing.T) {
	key := ExportKey(7)
	if !strings.HasPrefix(key, ExportPrefix(7)) || !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("unexpected key %q", key)
	}
	if ExportKey(7) == key {
		t.Fatal("expected unique keys")
	}
}

func TestIsNoSuchKey(t *testing.T) {
	wrapped := fmt.Errorf("get: %w", minio.ErrorResponse{Code: "NoSuchKey"})
	if !IsNoSuchKey(wrapped) {
		t.Fatal("expected wrapped NoSuchKey to match")
	}
	if !IsNoSuchKey(errors.New("The specified key does not exist.")) {
		t.Fatal("expected message match")
	}
	if IsNoSuchKey(errors.New("connection refused")) || IsNoSuchKey(nil) {
		t.Fatal("unexpected match")
	}
}
