package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kirillkom/docproof/internal/core/domain"
)

func (c *Client) postJSON(ctx context.Context, path, credential string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(credential))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &domain.TransportError{Provider: domain.ProviderOpenAI, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return formatHTTPError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TransportError{Provider: domain.ProviderOpenAI, Message: "decode response", Err: err}
	}
	return nil
}

// formatHTTPError prefers the vendor error message over the raw body.
func formatHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(body))

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && strings.TrimSpace(envelope.Error.Message) != "" {
		msg = strings.TrimSpace(envelope.Error.Message)
	}
	if msg == "" {
		msg = resp.Status
	}
	return &domain.TransportError{
		Provider:   domain.ProviderOpenAI,
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}
