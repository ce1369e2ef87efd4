package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/docproof/internal/config"
	"github.com/kirillkom/docproof/internal/core/ports"
	"github.com/kirillkom/docproof/internal/core/usecase"
	"github.com/kirillkom/docproof/internal/infrastructure/auth"
	"github.com/kirillkom/docproof/internal/infrastructure/chunking"
	"github.com/kirillkom/docproof/internal/infrastructure/extractor"
	"github.com/kirillkom/docproof/internal/infrastructure/extractor/docx"
	"github.com/kirillkom/docproof/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/docproof/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/docproof/internal/infrastructure/llm/claude"
	"github.com/kirillkom/docproof/internal/infrastructure/llm/openai"
	"github.com/kirillkom/docproof/internal/infrastructure/llm/prompt"
	"github.com/kirillkom/docproof/internal/infrastructure/llm/router"
	"github.com/kirillkom/docproof/internal/infrastructure/queue/nats"
	docxrender "github.com/kirillkom/docproof/internal/infrastructure/render/docx"
	xlsxrender "github.com/kirillkom/docproof/internal/infrastructure/render/xlsx"
	"github.com/kirillkom/docproof/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/docproof/internal/infrastructure/resilience"
	"github.com/kirillkom/docproof/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/docproof/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue       ports.JobQueue
	Documents   *usecase.DocumentUseCase
	Jobs        *usecase.JobUseCase
	Credentials *usecase.CredentialService
	Exporter    *usecase.ExportUseCase
	ProcessUC   *usecase.ProcessJobUseCase
	Verifier    ports.SessionVerifier

	WorkerMetrics *metrics.WorkerMetrics

	closeFn func()
}

// New wires every adapter. The worker metrics registry is always created so
// breaker transitions are recorded in both binaries.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, service string) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	docRepo := postgres.NewDocumentRepository(db)
	jobRepo := postgres.NewJobRepository(db)
	credRepo := postgres.NewCredentialRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	workerMetrics := metrics.NewWorkerMetrics(service)
	breakerObserver := func(operation, from, to string) {
		logger.Warn("circuit_breaker_state_changed", "operation", operation, "from", from, "to", to)
		workerMetrics.ObserveBreakerState(operation, from, to)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, nats.Subjects{
		Submitted: cfg.NATSSubmitSubject,
		Cancel:    cfg.NATSCancelSubject,
	}, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()).WithStateObserver(breakerObserver),
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	prompts, err := prompt.NewBuilder()
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}

	providerPolicy := resilience.ProviderConfig()
	if cfg.ProviderBreakerOpen > 0 {
		providerPolicy.BreakerOpenTimeout = time.Duration(cfg.ProviderBreakerOpen) * time.Second
	}
	llmTimeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second
	openAIClient := openai.New(openai.Config{
		BaseURL:     cfg.OpenAIBaseURL,
		Timeout:     llmTimeout,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	}, resilience.NewExecutor(providerPolicy).WithStateObserver(breakerObserver))
	claudeClient := claude.New(claude.Config{
		BaseURL:     cfg.ClaudeBaseURL,
		Timeout:     llmTimeout,
		MaxTokens:   int64(cfg.LLMMaxTokens),
		Temperature: cfg.LLMTemperature,
	}, resilience.NewExecutor(providerPolicy).WithStateObserver(breakerObserver))
	aiRouter := router.New(openAIClient, claudeClient, workerMetrics, logger)

	textExtractor := extractor.NewDispatcher(docx.NewExtractor(), pdf.NewExtractor(), plaintext.NewExtractor())
	orchestrator := usecase.NewChunkOrchestrator(
		aiRouter,
		prompts,
		time.Duration(cfg.ChunkPauseMillis)*time.Millisecond,
		logger,
	).WithObserver(workerMetrics)

	processUC := usecase.NewProcessJobUseCase(
		jobRepo,
		docRepo,
		credRepo,
		chunking.NewSplitter(cfg.ChunkMaxSize),
		prompts,
		orchestrator,
		logger,
	).WithObserver(workerMetrics)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:       queue,
		Documents:   usecase.NewDocumentUseCase(docRepo, storage, textExtractor),
		Jobs:        usecase.NewJobUseCase(jobRepo, docRepo, credRepo, queue, logger),
		Credentials: usecase.NewCredentialService(credRepo, logger),
		Exporter:    usecase.NewExportUseCase(jobRepo, docRepo, docxrender.NewRenderer(), xlsxrender.NewRenderer()),
		ProcessUC:   processUC,
		Verifier:    auth.NewStaticVerifier(config.ParseAuthTokens(cfg.AuthTokens)),

		WorkerMetrics: workerMetrics,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
