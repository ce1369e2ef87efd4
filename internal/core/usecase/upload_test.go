package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/docproof/internal/core/domain"
)

func TestUploadStoresDocumentWithStats(t *testing.T) {
	repo := &docRepoFake{}
	storage := &storageFake{}
	extractor := &extractorFake{text: "Hello world, again."}
	uc := NewDocumentUseCase(repo, storage, extractor)

	doc, err := uc.Upload(context.Background(), "user-1", "My Report.docx", "application/octet-stream", strings.NewReader("raw-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.UserID != "user-1" || doc.Filename != "My Report.docx" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Stats.WordCount != 3 || doc.Stats.Status != domain.StatsAcceptable {
		t.Fatalf("unexpected stats: %+v", doc.Stats)
	}
	if storage.savedBody != "raw-bytes" {
		t.Fatalf("expected original bytes in storage, got %q", storage.savedBody)
	}
	if !strings.HasSuffix(storage.savedKey, "_My_Report.docx") || !strings.HasPrefix(storage.savedKey, doc.ID) {
		t.Fatalf("unexpected storage key: %q", storage.savedKey)
	}
	if repo.created == nil || repo.created.Text != "Hello world, again." {
		t.Fatalf("expected extracted text to be persisted, got %+v", repo.created)
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	extractor := &extractorFake{text: "unused"}
	uc := NewDocumentUseCase(&docRepoFake{}, &storageFake{}, extractor)

	_, err := uc.Upload(context.Background(), "user-1", "a.txt", "text/plain", strings.NewReader(""))
	var extractErr *domain.ExtractionError
	if !errors.As(err, &extractErr) || extractErr.Code != domain.ExtractionFileRead {
		t.Fatalf("expected file read error, got %v", err)
	}
	if extractor.calls != 0 {
		t.Fatal("expected extractor not to be called")
	}
}

func TestUploadDoesNotStoreUnreadableDocument(t *testing.T) {
	storage := &storageFake{}
	extractor := &extractorFake{err: &domain.ExtractionError{Code: domain.ExtractionFormat, Details: "not a zip archive"}}
	uc := NewDocumentUseCase(&docRepoFake{}, storage, extractor)

	_, err := uc.Upload(context.Background(), "user-1", "a.docx", "", strings.NewReader("garbage"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if storage.savedKey != "" {
		t.Fatal("expected nothing to be stored")
	}
}

func TestUploadRejectsDocumentWithoutText(t *testing.T) {
	uc := NewDocumentUseCase(&docRepoFake{}, &storageFake{}, &extractorFake{text: "  \n\t "})

	_, err := uc.Upload(context.Background(), "user-1", "a.txt", "text/plain", strings.NewReader("x"))
	var extractErr *domain.ExtractionError
	if !errors.As(err, &extractErr) || extractErr.Code != domain.ExtractionFormat {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestGetDocumentHidesOtherUsers(t *testing.T) {
	repo := &docRepoFake{docs: map[string]*domain.Document{
		"doc-1": {ID: "doc-1", UserID: "owner"},
	}}
	uc := NewDocumentUseCase(repo, &storageFake{}, &extractorFake{})

	if _, err := uc.GetDocument(context.Background(), "owner", "doc-1"); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	_, err := uc.GetDocument(context.Background(), "intruder", "doc-1")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found for another user, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.docx":          "report.docx",
		"../../etc/passwd":     "passwd",
		`C:\docs\my file?.pdf`: "my_file_.pdf",
		"":                     "document.bin",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q): expected %q, got %q", in, want, got)
		}
	}
}
