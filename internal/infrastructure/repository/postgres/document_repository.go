package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kirillkom/docproof/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (id, user_id, filename, mime_type, storage_path, text_content, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, doc.ID, doc.UserID, doc.Filename, doc.MimeType, doc.StoragePath, doc.Text, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID loads a document. Stats are recomputed from the stored text.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, filename, mime_type, storage_path, text_content, created_at
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	err := row.Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.MimeType, &doc.StoragePath, &doc.Text, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.Stats = domain.ComputeStats(doc.Text)
	return &doc, nil
}
