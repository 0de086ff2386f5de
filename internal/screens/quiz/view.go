package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	quizcore "github.com/abhisek/studiz/internal/quiz"
	"github.com/abhisek/studiz/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	switch s.phase {
	case phaseSetup:
		return s.viewSetup(width)
	case phaseGenerating:
		return centerDim(width, fmt.Sprintf("\n\n  Writing your quiz%s", strings.Repeat(".", s.spinner%4)))
	case phaseActive, phaseFeedback:
		return s.viewQuestion(width)
	case phaseDone:
		return s.viewResults(width)
	}
	return ""
}

func (s *QuizScreen) viewSetup(width int) string {
	titles := map[int]string{
		stepPath:    "Build a quiz from your notes",
		stepCount:   "How many questions?",
		stepSeconds: "How long per question?",
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Title.Render(titles[s.setupStep])))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
	}
	return b.String()
}

func (s *QuizScreen) viewQuestion(width int) string {
	cw := width - 8
	if cw > 76 {
		cw = 76
	}
	if cw < 20 {
		cw = 20
	}

	// During feedback the session has already advanced past the
	// answered question, so Index() is that question's 1-based number.
	number := s.session.Index() + 1
	if s.phase == phaseFeedback {
		number = s.session.Index()
	}
	progress := fmt.Sprintf("Question %d of %d", number, s.session.Length())

	header := lipgloss.NewStyle().Foreground(theme.TextDim).Render(progress)
	if s.phase == phaseActive {
		remaining := int(s.session.Remaining().Seconds())
		timerStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		if remaining <= 5 {
			timerStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		}
		header += "    " + timerStyle.Render(fmt.Sprintf("⏱ %ds", remaining))
	}

	body := s.choice.View()

	var feedback string
	if s.phase == phaseFeedback {
		switch {
		case s.timedOut:
			feedback = theme.Incorrect.Render("⏱ Time's up!")
		case s.lastEntry.Submitted == s.lastEntry.CorrectLabel:
			feedback = theme.Correct.Render("✓ Correct!")
		default:
			feedback = theme.Incorrect.Render(fmt.Sprintf("✗ Not quite — the answer was %s", s.lastEntry.CorrectLabel))
		}
	}

	card := theme.Card.Width(cw).Render(header + "\n\n" + body + "\n" + feedback)
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func (s *QuizScreen) viewResults(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Title.Render(fmt.Sprintf("You scored %d / %d", s.session.Score(), s.session.Length()))))
	b.WriteString("\n\n")

	for i, entry := range s.session.Log() {
		prefix := "  "
		if i == s.resultSel {
			prefix = "> "
		}

		var mark string
		var style lipgloss.Style
		switch {
		case entry.Submitted == entry.CorrectLabel:
			mark = "✓"
			style = lipgloss.NewStyle().Foreground(theme.Success)
		case entry.Submitted == quizcore.NoAnswer:
			mark = "⏱"
			style = lipgloss.NewStyle().Foreground(theme.Accent)
		default:
			mark = "✗"
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		if i == s.resultSel {
			style = style.Bold(true)
		}

		saved := ""
		if s.saved[i] {
			saved = "  ★"
		}

		line := fmt.Sprintf("%s%s %s  (you: %s, answer: %s)%s",
			prefix, mark, entry.Question, entry.Submitted, entry.CorrectLabel, saved)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Hint.Render("B bookmarks the selected question for review")))
	return b.String()
}

func centerDim(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(text)
}
