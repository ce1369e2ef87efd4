package domain

import (
	"errors"
	"strings"
)

var (
	errBlankCredential = errors.New("credential is empty")
	errCredentialShape = errors.New("credential looks like an error message, not an API key")
)

type Provider string

const (
	ProviderOpenAI  Provider = "openai"
	ProviderClaude  Provider = "claude"
	ProviderUnknown Provider = "unknown"
)

func ParseProvider(raw string) (Provider, bool) {
	switch Provider(strings.ToLower(strings.TrimSpace(raw))) {
	case ProviderOpenAI:
		return ProviderOpenAI, true
	case ProviderClaude, "anthropic":
		return ProviderClaude, true
	default:
		return ProviderUnknown, false
	}
}

// ModelRef is a model identifier tagged with the provider that serves it.
// Model names are open-ended, so routing is prefix based.
type ModelRef struct {
	Name     string
	Provider Provider
}

var (
	claudeModelPrefixes = []string{"claude-"}
	openAIModelPrefixes = []string{"gpt-", "o3-", "o4-"}
	openAIBareModels    = []string{"o3", "o4"}
)

// ClassifyModel is the single place that maps a model name to its provider.
func ClassifyModel(name string) ModelRef {
	normalized := strings.ToLower(strings.TrimSpace(name))
	ref := ModelRef{Name: strings.TrimSpace(name), Provider: ProviderUnknown}
	if normalized == "" {
		return ref
	}
	for _, prefix := range claudeModelPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			ref.Provider = ProviderClaude
			return ref
		}
	}
	for _, prefix := range openAIModelPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			ref.Provider = ProviderOpenAI
			return ref
		}
	}
	for _, bare := range openAIBareModels {
		if normalized == bare {
			ref.Provider = ProviderOpenAI
			return ref
		}
	}
	return ref
}

func (m ModelRef) Known() bool {
	return m.Provider == ProviderOpenAI || m.Provider == ProviderClaude
}

var reasoningModelPrefixes = []string{"gpt-5", "o1", "o3", "o4"}

// IsReasoningModel reports whether the model belongs to an OpenAI reasoning
// family. Those models take max_completion_tokens and reject temperature.
func IsReasoningModel(name string) bool {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, prefix := range reasoningModelPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}
	return false
}

// ProviderCredentials holds the caller-supplied API keys. Values are opaque.
type ProviderCredentials struct {
	OpenAI string
	Claude string
}

func (c ProviderCredentials) For(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return c.OpenAI
	case ProviderClaude:
		return c.Claude
	default:
		return ""
	}
}

func (c ProviderCredentials) Has(provider Provider) bool {
	return strings.TrimSpace(c.For(provider)) != ""
}

var credentialErrorPrefixes = []string{
	"error",
	"failed",
	"exception",
	"invalid",
	"unauthorized",
	"typeerror",
	"<!doctype",
	"<html",
	"{",
}

var credentialPlaceholders = []string{"undefined", "null", "nil", "none"}

// ValidateCredential rejects blank keys and values that look like an error
// message that was stored in place of a key.
func ValidateCredential(provider Provider, credential string) error {
	trimmed := strings.TrimSpace(credential)
	if trimmed == "" {
		return WrapError(ErrMissingCredential, string(provider), errBlankCredential)
	}
	if strings.ContainsAny(trimmed, " \t\r\n") {
		return WrapError(ErrInvalidCredential, string(provider), errCredentialShape)
	}
	lower := strings.ToLower(trimmed)
	for _, placeholder := range credentialPlaceholders {
		if lower == placeholder {
			return WrapError(ErrMissingCredential, string(provider), errBlankCredential)
		}
	}
	for _, prefix := range credentialErrorPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return WrapError(ErrInvalidCredential, string(provider), errCredentialShape)
		}
	}
	return nil
}
