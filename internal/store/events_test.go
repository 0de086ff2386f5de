package store

import (
	"context"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEventRepo_LLMEvents(t *testing.T) {
	repo := testStore(t).EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "groq", Model: "llama3-70b-8192", Purpose: "ask", InputTokens: 100, OutputTokens: 50, LatencyMs: 800, Success: true},
		{Provider: "groq", Model: "llama3-70b-8192", Purpose: "quiz-gen", InputTokens: 900, OutputTokens: 400, LatencyMs: 2100, Success: true},
		{Provider: "groq", Model: "llama3-70b-8192", Purpose: "ask", Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	// Newest first.
	if got[0].Purpose != "ask" || got[0].Success {
		t.Errorf("first event = %+v, want the failed ask", got[0].LLMRequestEventData)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited query returned %d events, want 2", len(limited))
	}
}

func TestEventRepo_GetLLMEvent(t *testing.T) {
	repo := testStore(t).EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o", Purpose: "notes", Success: true,
		RequestBody: `{"messages":[]}`, ResponseBody: "ok",
	}); err != nil {
		t.Fatal(err)
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetLLMEvent(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("GetLLMEvent: %v", err)
	}
	if got == nil || got.ResponseBody != "ok" {
		t.Errorf("GetLLMEvent = %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 99999)
	if err != nil {
		t.Fatalf("GetLLMEvent missing: %v", err)
	}
	if missing != nil {
		t.Errorf("GetLLMEvent for unknown id = %+v, want nil", missing)
	}
}

func TestEventRepo_UsageAggregates(t *testing.T) {
	repo := testStore(t).EventRepo()
	ctx := context.Background()

	seed := []LLMRequestEventData{
		{Provider: "groq", Model: "llama3-70b-8192", Purpose: "ask", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "groq", Model: "llama3-70b-8192", Purpose: "ask", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Provider: "groq", Model: "llama3-8b-8192", Purpose: "quiz-gen", InputTokens: 5, OutputTokens: 5, LatencyMs: 50, Success: true},
		{Provider: "groq", Model: "llama3-8b-8192", Purpose: "quiz-gen", Success: false},
	}
	for _, e := range seed {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("LLMUsageByPurpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purpose rows, want 2", len(byPurpose))
	}
	for _, s := range byPurpose {
		if s.Purpose == "ask" {
			if s.Calls != 2 || s.InputTokens != 40 || s.OutputTokens != 60 || s.AvgLatencyMs != 200 {
				t.Errorf("ask stats = %+v", s)
			}
		}
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("LLMUsageByModel: %v", err)
	}
	// Failed calls are excluded from model usage.
	for _, u := range byModel {
		if u.Model == "llama3-8b-8192" && u.Calls != 1 {
			t.Errorf("llama3-8b calls = %d, want 1", u.Calls)
		}
	}
}

func TestEventRepo_QuizResults(t *testing.T) {
	repo := testStore(t).EventRepo()
	ctx := context.Background()

	if err := repo.AppendQuizResult(ctx, QuizEventData{
		Source: "bio-notes.pdf", Questions: 5, Correct: 3,
		DurationSecs: 74, TimePerQuestionSecs: 20,
	}); err != nil {
		t.Fatalf("AppendQuizResult: %v", err)
	}

	got, err := repo.QueryQuizResults(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryQuizResults: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	r := got[0]
	if r.Source != "bio-notes.pdf" || r.Questions != 5 || r.Correct != 3 {
		t.Errorf("result = %+v", r.QuizEventData)
	}
	if r.Timestamp.IsZero() {
		t.Error("stored result has no timestamp")
	}
}
