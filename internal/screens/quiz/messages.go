package quiz

import (
	"time"

	quizcore "github.com/abhisek/studiz/internal/quiz"
)

// generatedMsg is sent when quiz generation finishes.
type generatedMsg struct {
	Set quizcore.QuizSet
	Err error
}

// timerTickMsg drives the per-question countdown.
type timerTickMsg time.Time

// spinnerTickMsg animates the generation spinner.
type spinnerTickMsg time.Time

// feedbackDoneMsg ends the brief per-question feedback display.
type feedbackDoneMsg struct{}
