// Package tutor answers study questions through the configured LLM
// provider: free-form subject questions, questions grounded in pasted
// or extracted notes, and doubts read out of a photographed problem.
package tutor

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/studiz/internal/llm"
)

// NotesWindow caps how much source material a single question carries.
const NotesWindow = 3000

const systemPrompt = "You are a patient, knowledgeable study assistant. " +
	"Explain clearly, step by step, and keep answers focused on the question asked."

// AskError wraps a failed tutoring exchange.
type AskError struct {
	Err error
}

func (e *AskError) Error() string {
	return fmt.Sprintf("asking tutor: %v", e.Err)
}

func (e *AskError) Unwrap() error {
	return e.Err
}

// Tutor answers questions with a single provider call per exchange.
type Tutor struct {
	provider llm.Provider
}

// New creates a Tutor backed by the given provider.
func New(provider llm.Provider) *Tutor {
	return &Tutor{provider: provider}
}

// Ask answers a free-form question in the named subject.
func (t *Tutor) Ask(ctx context.Context, subject, question string) (string, error) {
	prompt := fmt.Sprintf("You are an expert %s tutor. Answer the following question concisely and accurately:\n\n%s",
		subject, strings.TrimSpace(question))
	return t.complete(llm.WithPurpose(ctx, "ask"), prompt)
}

// AskFromNotes answers a question using the supplied study material as
// context. Material beyond NotesWindow is dropped.
func (t *Tutor) AskFromNotes(ctx context.Context, notes, question string) (string, error) {
	prompt := fmt.Sprintf("Based on the following study notes, answer the question.\n\nNotes:\n%s\n\nQuestion: %s",
		window(notes, NotesWindow), strings.TrimSpace(question))
	return t.complete(llm.WithPurpose(ctx, "notes"), prompt)
}

// AskFromImage explains the problem text recovered from an image.
func (t *Tutor) AskFromImage(ctx context.Context, extracted string) (string, error) {
	prompt := fmt.Sprintf("The following text was extracted from a photo of a problem a student is stuck on. "+
		"Identify the question being asked and solve it, showing your working:\n\n%s",
		window(extracted, NotesWindow))
	return t.complete(llm.WithPurpose(ctx, "image-doubt"), prompt)
}

func (t *Tutor) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, llm.AskTimeout)
	defer cancel()

	resp, err := t.provider.Complete(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &AskError{Err: err}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", &AskError{Err: fmt.Errorf("empty completion from %s", t.provider.ModelID())}
	}
	return text, nil
}

func window(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
