package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/studiz/internal/llm"
)

func TestGenerator_Generate(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(llm.MockResponse{Text: sampleQuizText})

	g := NewGenerator(mock)
	set, err := g.Generate(context.Background(), "The capital of France is Paris.", 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("got %d questions, want 2", len(set))
	}

	if mock.CallCount() != 1 {
		t.Fatalf("provider called %d times, want 1", mock.CallCount())
	}
	req := mock.Calls[0]
	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser {
		t.Fatal("expected a single user message")
	}
	if !strings.Contains(req.Messages[0].Content, "exactly 2") {
		t.Errorf("prompt does not request the question count: %q", req.Messages[0].Content)
	}
	if !strings.Contains(req.Messages[0].Content, "The capital of France is Paris.") {
		t.Error("prompt does not include the material")
	}
}

func TestGenerator_CountOutOfRange(t *testing.T) {
	mock := llm.NewMockProvider()
	g := NewGenerator(mock)

	for _, count := range []int{0, -1, 11} {
		_, err := g.Generate(context.Background(), "material", count)
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Errorf("Generate(count=%d) = %v, want GenerationError", count, err)
		}
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider called %d times for invalid counts, want 0", mock.CallCount())
	}
}

func TestGenerator_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("upstream 500")}})

	g := NewGenerator(mock)
	_, err := g.Generate(context.Background(), "material", 3)

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Generate = %v, want GenerationError", err)
	}
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Errorf("error chain does not surface the provider failure: %v", err)
	}
}

func TestGenerator_EmptyCompletion(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(llm.MockResponse{Text: "I was unable to write a quiz for that."})

	g := NewGenerator(mock)
	_, err := g.Generate(context.Background(), "material", 3)

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Generate = %v, want GenerationError for empty parse", err)
	}
}

func TestGenerator_TruncatesLongMaterial(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddResponse(llm.MockResponse{Text: sampleQuizText})

	material := strings.Repeat("x", MaterialWindow+500)
	g := NewGenerator(mock)
	if _, err := g.Generate(context.Background(), material, 2); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	prompt := mock.Calls[0].Messages[0].Content
	if strings.Contains(prompt, strings.Repeat("x", MaterialWindow+1)) {
		t.Error("prompt contains more material than the window allows")
	}
	if !strings.Contains(prompt, strings.Repeat("x", MaterialWindow)) {
		t.Error("prompt does not contain the windowed material")
	}
}
