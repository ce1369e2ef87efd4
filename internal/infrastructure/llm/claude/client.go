package claude

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/infrastructure/llm/responseparse"
	"github.com/kirillkom/docproof/internal/infrastructure/resilience"
)

type Config struct {
	// BaseURL points at the vendor or at a backend proxy. Empty uses the SDK default.
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int64
	Temperature float64
}

type Client struct {
	baseOptions []option.RequestOption
	maxTokens   int64
	temperature float64
	executor    *resilience.Executor
}

func New(cfg Config, executor *resilience.Executor) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 16000
	}

	opts := []option.RequestOption{
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		baseOptions: opts,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		executor:    executor,
	}
}

// Complete sends one Messages API call with the caller's key.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (domain.AIResponse, error) {
	if err := domain.ValidateCredential(domain.ProviderClaude, req.Credential); err != nil {
		return domain.AIResponse{}, err
	}

	opts := append([]option.RequestOption{option.WithAPIKey(strings.TrimSpace(req.Credential))}, c.baseOptions...)
	client := anthropic.NewClient(opts...)
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(ResolveModel(req.Model)),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if system := strings.TrimSpace(req.SystemMessage); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	var content string
	call := func(ctx context.Context) error {
		message, err := client.Messages.New(ctx, params)
		if err != nil {
			return toTransportError(ctx, err)
		}
		content = firstText(message)
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "provider.claude", call, resilience.ClassifyTransport)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.AIResponse{}, resilience.WrapTemporaryIfNeeded("claude complete", err)
	}

	resp, tier := responseparse.ToAIResponse(content, req.Task, req.Model)
	resp.ParseTier = tier.String()
	return resp, nil
}

func firstText(message *anthropic.Message) string {
	if message == nil {
		return ""
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text
		}
	}
	return ""
}

func toTransportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &domain.TransportError{
			Provider:   domain.ProviderClaude,
			StatusCode: apiErr.StatusCode,
			Message:    vendorMessage(apiErr.RawJSON(), http.StatusText(apiErr.StatusCode)),
		}
	}
	return &domain.TransportError{Provider: domain.ProviderClaude, Err: err}
}

func vendorMessage(raw, fallback string) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err == nil {
		if msg := strings.TrimSpace(envelope.Error.Message); msg != "" {
			return msg
		}
	}
	return fallback
}
