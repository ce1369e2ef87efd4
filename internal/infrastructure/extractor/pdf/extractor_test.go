package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/docproof/internal/core/domain"
)

func TestExtractRejectsNonPDF(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), "a.pdf", "application/pdf", []byte("not a pdf at all"))
	var extractErr *domain.ExtractionError
	if !errors.As(err, &extractErr) || extractErr.Code != domain.ExtractionFormat {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestExtractRejectsTruncatedPDF(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), "a.pdf", "application/pdf", []byte("%PDF-1.4\n1 0 obj\n<<"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
