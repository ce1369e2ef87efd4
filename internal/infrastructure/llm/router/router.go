package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/core/ports"
)

// FallbackModel answers when a gpt-5 family call fails and a Claude key is set.
const FallbackModel = "claude-sonnet-4-5"

// fallbackFamilyPrefix marks the only model family eligible for fallback.
// There is no Claude to OpenAI path.
const fallbackFamilyPrefix = "gpt-5-"

// Observer receives per-call outcomes. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveProviderCall(provider domain.Provider, outcome string)
	ObserveFallback(outcome string)
}

type Router struct {
	providers map[domain.Provider]ports.ProviderClient
	observer  Observer
	logger    *slog.Logger
}

func New(openAI, claude ports.ProviderClient, observer Observer, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		providers: map[domain.Provider]ports.ProviderClient{
			domain.ProviderOpenAI: openAI,
			domain.ProviderClaude: claude,
		},
		observer: observer,
		logger:   logger,
	}
}

// Call routes the request by model name. Unknown models and missing keys fail
// before any network call.
func (r *Router) Call(ctx context.Context, req domain.RouteRequest) (domain.AIResponse, error) {
	ref := domain.ClassifyModel(req.Model)
	if !ref.Known() {
		return domain.AIResponse{}, domain.WrapError(domain.ErrUnknownModel, "route", fmt.Errorf("model %q is not served by any provider", req.Model))
	}
	if !req.Credentials.Has(ref.Provider) {
		return domain.AIResponse{}, domain.WrapError(domain.ErrMissingCredential, "route", fmt.Errorf("no %s API key configured for model %s", ref.Provider, ref.Name))
	}

	resp, err := r.dispatch(ctx, ref, req)
	if err == nil {
		return resp, nil
	}
	if !r.shouldFallback(ctx, ref, req, err) {
		return domain.AIResponse{}, err
	}

	r.logger.Warn("provider_fallback",
		"model", ref.Name,
		"fallback_model", FallbackModel,
		"error", err,
	)
	fallbackRef := domain.ModelRef{Name: FallbackModel, Provider: domain.ProviderClaude}
	fallbackResp, fallbackErr := r.dispatch(ctx, fallbackRef, req)
	if fallbackErr != nil {
		r.observeFallback("failure")
		return domain.AIResponse{}, fmt.Errorf("%s failed (%v); fallback to %s failed: %w", ref.Name, err, FallbackModel, fallbackErr)
	}
	r.observeFallback("success")
	return fallbackResp, nil
}

func (r *Router) dispatch(ctx context.Context, ref domain.ModelRef, req domain.RouteRequest) (domain.AIResponse, error) {
	provider, ok := r.providers[ref.Provider]
	if !ok || provider == nil {
		return domain.AIResponse{}, domain.WrapError(domain.ErrConfiguration, "route", fmt.Errorf("provider %s is not configured", ref.Provider))
	}
	resp, err := provider.Complete(ctx, domain.CompletionRequest{
		Prompt:        req.Prompt,
		SystemMessage: req.SystemMessage,
		Model:         ref.Name,
		Credential:    req.Credentials.For(ref.Provider),
		Task:          req.Task,
		Glossary:      req.Glossary,
	})
	r.observeCall(ref.Provider, resp, err)
	if err != nil {
		return domain.AIResponse{}, err
	}
	if resp.Model == "" {
		resp.Model = ref.Name
	}
	return resp, nil
}

func (r *Router) shouldFallback(ctx context.Context, ref domain.ModelRef, req domain.RouteRequest, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, domain.ErrConfiguration) {
		return false
	}
	if !strings.HasPrefix(strings.ToLower(ref.Name), fallbackFamilyPrefix) {
		return false
	}
	return req.Credentials.Has(domain.ProviderClaude)
}

func (r *Router) observeCall(provider domain.Provider, resp domain.AIResponse, err error) {
	if r.observer == nil {
		return
	}
	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
	case resp.Empty:
		outcome = "empty"
	}
	r.observer.ObserveProviderCall(provider, outcome)
}

func (r *Router) observeFallback(outcome string) {
	if r.observer != nil {
		r.observer.ObserveFallback(outcome)
	}
}
