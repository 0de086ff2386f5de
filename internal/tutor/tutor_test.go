package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/abhisek/studiz/internal/llm"
)

func TestAsk(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Paris is the capital of France."})
	tut := New(mock)

	answer, err := tut.Ask(context.Background(), "geography", "What is the capital of France?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "Paris is the capital of France." {
		t.Errorf("answer = %q", answer)
	}

	req := mock.Calls[0]
	if req.System == "" {
		t.Error("request carries no system prompt")
	}
	if !strings.Contains(req.Messages[0].Content, "geography") {
		t.Error("prompt does not name the subject")
	}
	if !strings.Contains(req.Messages[0].Content, "capital of France") {
		t.Error("prompt does not carry the question")
	}
}

func TestAskFromNotes_WindowsMaterial(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "See section 2."})
	tut := New(mock)

	notes := strings.Repeat("n", NotesWindow+100)
	if _, err := tut.AskFromNotes(context.Background(), notes, "Summarize."); err != nil {
		t.Fatalf("AskFromNotes: %v", err)
	}

	prompt := mock.Calls[0].Messages[0].Content
	if strings.Contains(prompt, strings.Repeat("n", NotesWindow+1)) {
		t.Error("prompt carries more notes than the window allows")
	}
	if !strings.Contains(prompt, "Summarize.") {
		t.Error("prompt does not carry the question")
	}
}

func TestAskFromImage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "x = 4"})
	tut := New(mock)

	answer, err := tut.AskFromImage(context.Background(), "Solve 2x + 1 = 9")
	if err != nil {
		t.Fatalf("AskFromImage: %v", err)
	}
	if answer != "x = 4" {
		t.Errorf("answer = %q", answer)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "2x + 1 = 9") {
		t.Error("prompt does not carry the extracted text")
	}
}

func TestAsk_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrRateLimit{Err: errors.New("429")},
	})
	tut := New(mock)

	_, err := tut.Ask(context.Background(), "math", "2+2?")

	var askErr *AskError
	if !errors.As(err, &askErr) {
		t.Fatalf("Ask = %v, want AskError", err)
	}
	var rate *llm.ErrRateLimit
	if !errors.As(err, &rate) {
		t.Error("error chain does not surface the rate limit")
	}
	if mock.CallCount() != 1 {
		t.Errorf("provider called %d times, want exactly 1 (no retries)", mock.CallCount())
	}
}

func TestAsk_EmptyCompletion(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "   "})
	tut := New(mock)

	if _, err := tut.Ask(context.Background(), "math", "2+2?"); err == nil {
		t.Fatal("expected an error for an empty completion")
	}
}

func TestWindow_RuneBoundary(t *testing.T) {
	s := strings.Repeat("δ", 4) // 2 bytes per rune

	got := window(s, 5)
	if !utf8.ValidString(got) {
		t.Fatalf("window split a rune: %q", got)
	}
	if got != "δδ" {
		t.Errorf("window = %q, want %q", got, "δδ")
	}
}
