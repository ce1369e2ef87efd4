package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/docproof/internal/core/domain"
)

func TestSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	storage, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := storage.Save(context.Background(), "abc_report.docx", strings.NewReader("payload")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rc, err := storage.Open(context.Background(), "abc_report.docx")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	raw, _ := io.ReadAll(rc)
	if string(raw) != "payload" {
		t.Fatalf("unexpected content %q", raw)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, got %d entries", len(entries))
	}
}

func TestOpenMissingReturnsNotFound(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = storage.Open(context.Background(), "missing.txt")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	storage, err := New(filepath.Join(dir, "store"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, key := range []string{"../escape.txt", "a/b.txt", "..", ""} {
		err := storage.Save(context.Background(), key, strings.NewReader("x"))
		if !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("key %q: expected invalid input, got %v", key, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); err == nil {
		t.Fatal("expected no file outside the storage dir")
	}
}
