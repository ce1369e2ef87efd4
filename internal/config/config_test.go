package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NATS_SUBMIT_SUBJECT", "")
	t.Setenv("CHUNK_MAX_SIZE", "")
	t.Setenv("CHUNK_PAUSE_MS", "")
	t.Setenv("LLM_TEMPERATURE", "")

	cfg := Load()
	if cfg.NATSSubmitSubject != "jobs.submitted" {
		t.Fatalf("expected default submit subject, got %q", cfg.NATSSubmitSubject)
	}
	if cfg.NATSCancelSubject != "jobs.cancel" {
		t.Fatalf("expected default cancel subject, got %q", cfg.NATSCancelSubject)
	}
	if cfg.ChunkMaxSize != 10000 {
		t.Fatalf("expected default chunk size 10000, got %d", cfg.ChunkMaxSize)
	}
	if cfg.ChunkPauseMillis != 1000 {
		t.Fatalf("expected default chunk pause 1000ms, got %d", cfg.ChunkPauseMillis)
	}
	if cfg.LLMTemperature != 0.3 {
		t.Fatalf("expected default temperature 0.3, got %v", cfg.LLMTemperature)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CHUNK_MAX_SIZE", "4000")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("WORKER_CONCURRENCY", "not-a-number")

	cfg := Load()
	if cfg.ChunkMaxSize != 4000 {
		t.Fatalf("expected chunk size override, got %d", cfg.ChunkMaxSize)
	}
	if cfg.LLMTemperature != 0.7 {
		t.Fatalf("expected temperature override, got %v", cfg.LLMTemperature)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.WorkerConcurrency != 2 {
		t.Fatalf("expected invalid int to fall back to 2, got %d", cfg.WorkerConcurrency)
	}
}

func TestParseAuthTokens(t *testing.T) {
	tokens := ParseAuthTokens(" alpha:user-1, beta : user-2 ,broken,:nouser,gamma:")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %v", tokens)
	}
	if tokens["alpha"] != "user-1" || tokens["beta"] != "user-2" {
		t.Fatalf("unexpected tokens %v", tokens)
	}
}
