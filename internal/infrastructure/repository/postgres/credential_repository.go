package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kirillkom/docproof/internal/core/domain"
)

// CredentialRepository stores one API key per user and provider.
type CredentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Load(ctx context.Context, userID string) (domain.ProviderCredentials, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT provider, credential
FROM provider_credentials
WHERE user_id = $1
`, userID)
	if err != nil {
		return domain.ProviderCredentials{}, fmt.Errorf("load credentials: %w", err)
	}
	defer rows.Close()

	var creds domain.ProviderCredentials
	for rows.Next() {
		var provider, credential string
		if err := rows.Scan(&provider, &credential); err != nil {
			return domain.ProviderCredentials{}, fmt.Errorf("scan credential: %w", err)
		}
		switch domain.Provider(provider) {
		case domain.ProviderOpenAI:
			creds.OpenAI = credential
		case domain.ProviderClaude:
			creds.Claude = credential
		}
	}
	if err := rows.Err(); err != nil {
		return domain.ProviderCredentials{}, fmt.Errorf("iterate credentials: %w", err)
	}
	return creds, nil
}

func (r *CredentialRepository) Save(ctx context.Context, userID string, provider domain.Provider, credential string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO provider_credentials (user_id, provider, credential, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id, provider) DO UPDATE
SET credential = EXCLUDED.credential, updated_at = EXCLUDED.updated_at
`, userID, string(provider), credential, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM provider_credentials
WHERE user_id = $1 AND provider = $2
`, userID, string(provider))
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
