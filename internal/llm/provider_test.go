package llm

import (
	"context"
	"errors"
	"testing"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "first"},
		MockResponse{Text: "second"},
	)

	resp, err := mock.Complete(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "first" {
		t.Errorf("Text = %q, want first", resp.Text)
	}

	resp, _ = mock.Complete(context.Background(), Request{})
	if resp.Text != "second" {
		t.Errorf("Text = %q, want second", resp.Text)
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	mock := NewMockProvider()

	_, err := mock.Complete(context.Background(), Request{})

	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("Complete on empty queue = %v, want ErrProviderUnavailable", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "ok"})

	req := Request{
		System:   "be brief",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	mock.Complete(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("CallCount = %d, want 1", mock.CallCount())
	}
	if mock.Calls[0].System != "be brief" {
		t.Errorf("recorded System = %q", mock.Calls[0].System)
	}
}

func TestResolveModel(t *testing.T) {
	models := map[string]string{"llama3-70b": "llama3-70b-8192"}

	if got := resolveModel("llama3-70b", models); got != "llama3-70b-8192" {
		t.Errorf("resolveModel(friendly) = %q", got)
	}
	// Unknown names pass through untouched so raw model IDs keep working.
	if got := resolveModel("llama-3.3-70b-versatile", models); got != "llama-3.3-70b-versatile" {
		t.Errorf("resolveModel(raw) = %q", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"groq with key", Config{Provider: "groq", Groq: GroqConfig{APIKey: "k"}}, false},
		{"groq missing key", Config{Provider: "groq"}, true},
		{"anthropic missing key", Config{Provider: "anthropic"}, true},
		{"mock needs nothing", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "llamafile"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STUDIZ_LLM_PROVIDER", "groq")
	t.Setenv("STUDIZ_GROQ_API_KEY", "gsk-test")
	t.Setenv("STUDIZ_GROQ_MODEL", "llama3-8b")

	cfg := ConfigFromEnv()
	if cfg.Provider != "groq" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.Groq.APIKey != "gsk-test" || cfg.Groq.Model != "llama3-8b" {
		t.Errorf("Groq config = %+v", cfg.Groq)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDiscoverConfig_Priority(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-1")
	t.Setenv("OPENAI_API_KEY", "sk-2")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("DiscoverConfig found nothing")
	}
	if cfg.Provider != "groq" {
		t.Errorf("Provider = %q, want groq (probed first)", cfg.Provider)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if got := PurposeFrom(ctx); got != "unknown" {
		t.Errorf("default purpose = %q, want unknown", got)
	}

	ctx = WithPurpose(ctx, "quiz-gen")
	if got := PurposeFrom(ctx); got != "quiz-gen" {
		t.Errorf("purpose = %q, want quiz-gen", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	for _, err := range []error{
		&ErrRateLimit{Err: inner},
		&ErrInvalidResponse{Err: inner},
		&ErrProviderUnavailable{Err: inner},
	} {
		if !errors.Is(err, inner) {
			t.Errorf("%T does not unwrap to the inner error", err)
		}
	}
}

func TestLookupCost(t *testing.T) {
	cost := LookupCost("llama3-70b-8192")
	if cost == nil {
		t.Fatal("no cost entry for llama3-70b-8192")
	}
	if got := cost.Cost(1_000_000, 0); got != cost.InputPerMTok {
		t.Errorf("Cost(1M input) = %v, want %v", got, cost.InputPerMTok)
	}

	if LookupCost("unpriced-model") != nil {
		t.Error("LookupCost invented a price for an unknown model")
	}
}
