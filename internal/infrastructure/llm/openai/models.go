package openai

import (
	"strings"

	"github.com/kirillkom/docproof/internal/core/domain"
)

// modelAliases maps public model names to the ids the API expects.
var modelAliases = map[string]string{
	"gpt-5-preview":       "gpt-5",
	"gpt-4-turbo-preview": "gpt-4-turbo",
	"gpt-4o-latest":       "chatgpt-4o-latest",
}

func ResolveModel(name string) string {
	trimmed := strings.TrimSpace(name)
	if alias, ok := modelAliases[strings.ToLower(trimmed)]; ok {
		return alias
	}
	return trimmed
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxTokens           int           `json:"max_tokens,omitempty"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
	Temperature         *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r chatResponse) firstContent() string {
	for _, choice := range r.Choices {
		if strings.TrimSpace(choice.Message.Content) != "" {
			return choice.Message.Content
		}
	}
	return ""
}

// buildRequest picks the parameter set by model family. Reasoning models
// take max_completion_tokens and reject temperature.
func (c *Client) buildRequest(req domain.CompletionRequest) chatRequest {
	messages := make([]chatMessage, 0, 2)
	if system := strings.TrimSpace(req.SystemMessage); system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	out := chatRequest{
		Model:    ResolveModel(req.Model),
		Messages: messages,
	}
	if domain.IsReasoningModel(req.Model) {
		out.MaxCompletionTokens = c.maxTokens
		return out
	}
	temperature := c.temperature
	out.MaxTokens = c.maxTokens
	out.Temperature = &temperature
	return out
}
