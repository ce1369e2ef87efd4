package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/docproof/internal/core/domain"
)

func TestCredentialRepositoryLoadMapsProviders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewCredentialRepository(db)
	rows := sqlmock.NewRows([]string{"provider", "credential"}).
		AddRow("openai", "sk-1").
		AddRow("claude", "sk-ant-1").
		AddRow("legacy", "ignored")
	mock.ExpectQuery("FROM provider_credentials").
		WithArgs("u-1").
		WillReturnRows(rows)

	creds, err := repo.Load(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if creds.OpenAI != "sk-1" || creds.Claude != "sk-ant-1" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCredentialRepositorySaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewCredentialRepository(db)
	mock.ExpectExec("ON CONFLICT \\(user_id, provider\\) DO UPDATE").
		WithArgs("u-1", "openai", "sk-2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), "u-1", domain.ProviderOpenAI, "sk-2"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCredentialRepositoryDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewCredentialRepository(db)
	mock.ExpectExec("DELETE FROM provider_credentials").
		WithArgs("u-1", "claude").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "u-1", domain.ProviderClaude); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
