package openai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/infrastructure/llm/responseparse"
	"github.com/kirillkom/docproof/internal/infrastructure/resilience"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

type Client struct {
	baseURL     string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	executor    *resilience.Executor
}

func New(cfg Config, executor *resilience.Executor) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 16000
	}
	return &Client{
		baseURL:     baseURL,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: timeout},
		executor:    executor,
	}
}

// Complete sends one chat completion. A blank answer is returned as an Empty
// response rather than an error.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (domain.AIResponse, error) {
	if err := domain.ValidateCredential(domain.ProviderOpenAI, req.Credential); err != nil {
		return domain.AIResponse{}, err
	}

	payload := c.buildRequest(req)
	var content string
	call := func(ctx context.Context) error {
		var response chatResponse
		if err := c.postJSON(ctx, "/chat/completions", req.Credential, payload, &response); err != nil {
			return err
		}
		content = response.firstContent()
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "provider.openai", call, resilience.ClassifyTransport)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.AIResponse{}, resilience.WrapTemporaryIfNeeded("openai complete", err)
	}

	resp, tier := responseparse.ToAIResponse(content, req.Task, req.Model)
	resp.ParseTier = tier.String()
	return resp, nil
}
