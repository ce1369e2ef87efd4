package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/core/ports"
)

type DocumentUseCase struct {
	repo      ports.DocumentRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
}

func NewDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
) *DocumentUseCase {
	return &DocumentUseCase{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
	}
}

// Upload extracts the text of a document before storing it, so files that
// cannot be read never reach storage.
func (uc *DocumentUseCase) Upload(
	ctx context.Context,
	userID, filename, mimeType string,
	body io.Reader,
) (*domain.Document, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &domain.ExtractionError{Code: domain.ExtractionFileRead, Details: "read upload", Err: err}
	}
	if len(data) == 0 {
		return nil, &domain.ExtractionError{Code: domain.ExtractionFileRead, Details: "file is empty"}
	}

	text, err := uc.extractor.Extract(ctx, filename, mimeType, data)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, &domain.ExtractionError{Code: domain.ExtractionFormat, Details: "document contains no text"}
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	if err := uc.storage.Save(ctx, storageKey, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		UserID:      userID,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Text:        text,
		Stats:       domain.ComputeStats(text),
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}
	return doc, nil
}

// GetDocument hides documents of other users behind ErrDocumentNotFound.
func (uc *DocumentUseCase) GetDocument(ctx context.Context, userID, id string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New("document belongs to another user"))
	}
	return doc, nil
}

// ComputeStats reports size statistics for arbitrary text.
func (uc *DocumentUseCase) ComputeStats(text string) domain.DocumentStats {
	return domain.ComputeStats(text)
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "/" {
		return "document.bin"
	}
	return base
}
