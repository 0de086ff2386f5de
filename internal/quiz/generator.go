package quiz

import (
	"context"
	"fmt"

	"github.com/abhisek/studiz/internal/llm"
)

// Count bounds for one quiz request.
const (
	MinQuestions = 1
	MaxQuestions = 10
)

// GenerationError wraps any failure to produce a QuizSet: a completion
// failure, or a response the parser could extract nothing from. The
// caller surfaces it to the user; there is no automatic retry, the user
// regenerates manually.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("quiz generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator produces quiz sets from study material via the completion
// provider.
type Generator struct {
	provider llm.Provider
}

// NewGenerator creates a Generator backed by the given provider.
func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate requests count multiple-choice questions built from the
// given study material. The material is truncated to its leading
// MaterialWindow bytes before being embedded in the prompt. Generation
// gets the longer quiz timeout since a multi-question completion is
// heavier than single-turn Q&A.
func (g *Generator) Generate(ctx context.Context, material string, count int) (QuizSet, error) {
	if count < MinQuestions || count > MaxQuestions {
		return nil, &GenerationError{Err: fmt.Errorf("question count %d out of range [%d,%d]", count, MinQuestions, MaxQuestions)}
	}

	ctx = llm.WithPurpose(ctx, "quiz-gen")
	ctx, cancel := context.WithTimeout(ctx, llm.QuizTimeout)
	defer cancel()

	resp, err := g.provider.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPrompt(material, count)},
		},
	})
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	set := Parse(resp.Text)
	if len(set) == 0 {
		return nil, &GenerationError{Err: fmt.Errorf("no questions found in completion output")}
	}

	return set, nil
}
