package quiz

import (
	"strings"
	"testing"
	"time"

	quizcore "github.com/abhisek/studiz/internal/quiz"
	"github.com/abhisek/studiz/internal/ui/components"
)

func feedbackScreen(t *testing.T) *QuizScreen {
	t.Helper()
	set := quizcore.QuizSet{
		{
			Prompt:       "What is the capital of France?",
			Options:      []string{"A) Berlin", "B) Paris", "C) Madrid", "D) Rome"},
			CorrectLabel: "B",
		},
		{
			Prompt:       "What is 2 + 2?",
			Options:      []string{"A) 3", "B) 5", "C) 4", "D) 22"},
			CorrectLabel: "C",
		},
	}
	session := quizcore.NewSession(set, 20*time.Second)
	session.Current()
	session.Submit("B) Paris")

	return &QuizScreen{
		set:       set,
		session:   session,
		choice:    components.NewChoice(set[0].Prompt, set[0].Options, 1),
		phase:     phaseFeedback,
		lastEntry: session.Log()[0],
	}
}

func TestViewQuestion_FeedbackShowsAnsweredNumber(t *testing.T) {
	s := feedbackScreen(t)

	out := s.viewQuestion(100)
	if !strings.Contains(out, "Question 1 of 2") {
		t.Errorf("feedback header does not show the answered question:\n%s", out)
	}
	if strings.Contains(out, "Question 2 of 2") {
		t.Error("feedback header jumped ahead to the next question")
	}
}

func TestViewQuestion_FeedbackHidesTimer(t *testing.T) {
	s := feedbackScreen(t)

	out := s.viewQuestion(100)
	if strings.Contains(out, "⏱") {
		t.Errorf("countdown rendered during feedback:\n%s", out)
	}

	s.phase = phaseActive
	out = s.viewQuestion(100)
	if !strings.Contains(out, "⏱") {
		t.Error("countdown missing on the active question")
	}
}
