package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/core/ports"
)

// CredentialService manages stored provider keys. Keys are never returned.
type CredentialService struct {
	store  ports.CredentialStore
	logger *slog.Logger
}

func NewCredentialService(store ports.CredentialStore, logger *slog.Logger) *CredentialService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialService{store: store, logger: logger}
}

func (s *CredentialService) Save(ctx context.Context, userID string, provider domain.Provider, credential string) error {
	if provider != domain.ProviderOpenAI && provider != domain.ProviderClaude {
		return domain.WrapError(domain.ErrInvalidInput, "save credential", fmt.Errorf("unknown provider %q", provider))
	}
	if err := domain.ValidateCredential(provider, credential); err != nil {
		return err
	}
	if err := s.store.Save(ctx, userID, provider, credential); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	s.logger.Info("credential_saved", "user_id", userID, "provider", provider)
	return nil
}

func (s *CredentialService) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	if provider != domain.ProviderOpenAI && provider != domain.ProviderClaude {
		return domain.WrapError(domain.ErrInvalidInput, "delete credential", errors.New("unknown provider"))
	}
	if err := s.store.Delete(ctx, userID, provider); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	s.logger.Info("credential_deleted", "user_id", userID, "provider", provider)
	return nil
}

func (s *CredentialService) Status(ctx context.Context, userID string) (domain.CredentialStatus, error) {
	creds, err := s.store.Load(ctx, userID)
	if err != nil {
		return domain.CredentialStatus{}, fmt.Errorf("load credentials: %w", err)
	}
	return domain.CredentialStatus{
		OpenAI: creds.Has(domain.ProviderOpenAI),
		Claude: creds.Has(domain.ProviderClaude),
	}, nil
}
