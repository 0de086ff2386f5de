package ask

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studiz/internal/router"
	"github.com/abhisek/studiz/internal/screen"
	"github.com/abhisek/studiz/internal/speech"
	"github.com/abhisek/studiz/internal/store"
	"github.com/abhisek/studiz/internal/tutor"
	"github.com/abhisek/studiz/internal/ui/components"
	"github.com/abhisek/studiz/internal/ui/layout"
	"github.com/abhisek/studiz/internal/ui/theme"
)

// subjects offered on the ask screen. "General" maps to a plain tutor
// persona; the rest steer the prompt toward the named field.
var subjects = []string{
	"General", "Math", "Physics", "Chemistry",
	"Biology", "History", "Geography", "Computer Science",
}

type phase int

const (
	phaseSubject phase = iota
	phaseQuestion
	phaseListening
	phaseLoading
	phaseAnswer
)

// answerMsg carries the tutor's reply (or failure).
type answerMsg struct {
	Question string
	Answer   string
	Err      error
}

// voiceMsg carries a transcribed spoken question.
type voiceMsg struct {
	Text string
	Err  error
}

type spinnerTickMsg time.Time

// AskScreen runs a free-form question and answer exchange.
type AskScreen struct {
	tutor      *tutor.Tutor
	records    *store.RecordStore
	recognizer *speech.Recognizer

	phase      phase
	subject    int
	input      components.TextInput
	question   string
	answer     string
	bookmarked bool
	errMsg     string
	spinner    int
}

var _ screen.Screen = (*AskScreen)(nil)
var _ screen.KeyHintProvider = (*AskScreen)(nil)

// New creates a new AskScreen.
func New(tut *tutor.Tutor, records *store.RecordStore, recognizer *speech.Recognizer) *AskScreen {
	return &AskScreen{
		tutor:      tut,
		records:    records,
		recognizer: recognizer,
		input:      components.NewTextInput("Type your question...", false, 0),
	}
}

func (s *AskScreen) Init() tea.Cmd {
	return nil
}

func (s *AskScreen) Title() string {
	return "Ask Tutor"
}

func (s *AskScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseSubject:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Subject"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseQuestion:
		hints := []layout.KeyHint{
			{Key: "Enter", Description: "Ask"},
		}
		if s.recognizer != nil {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+T", Description: "Speak"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	case phaseAnswer:
		return []layout.KeyHint{
			{Key: "B", Description: "Bookmark"},
			{Key: "N", Description: "Ask another"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return nil
	}
}

func (s *AskScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.phase = phaseQuestion
			return s, nil
		}
		s.question = msg.Question
		s.answer = msg.Answer
		s.errMsg = ""
		s.bookmarked = false
		s.phase = phaseAnswer
		if s.records != nil {
			if _, err := s.records.Append(store.KindHistory, msg.Question, msg.Answer); err != nil {
				s.errMsg = "could not save to history: " + err.Error()
			}
		}
		return s, nil

	case voiceMsg:
		s.phase = phaseQuestion
		if msg.Err != nil || strings.TrimSpace(msg.Text) == "" {
			s.errMsg = speech.Fallback
			return s, nil
		}
		s.errMsg = ""
		s.input.Model.SetValue(msg.Text)
		return s, nil

	case spinnerTickMsg:
		if s.phase != phaseLoading && s.phase != phaseListening {
			return s, nil
		}
		s.spinner++
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseQuestion {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *AskScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseSubject:
		switch key {
		case "up", "k":
			if s.subject > 0 {
				s.subject--
			}
		case "down", "j":
			if s.subject < len(subjects)-1 {
				s.subject++
			}
		case "enter":
			s.phase = phaseQuestion
			return s, s.input.Init()
		}
		return s, nil

	case phaseQuestion:
		switch key {
		case "enter":
			question := strings.TrimSpace(s.input.Value())
			if question == "" {
				return s, nil
			}
			s.phase = phaseLoading
			s.errMsg = ""
			return s, tea.Batch(s.ask(question), spinnerTick())
		case "ctrl+t":
			if s.recognizer == nil {
				return s, nil
			}
			s.phase = phaseListening
			s.errMsg = ""
			return s, tea.Batch(s.listen(), spinnerTick())
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseAnswer:
		switch key {
		case "b", "B":
			if s.records != nil && !s.bookmarked {
				if _, err := s.records.Append(store.KindBookmarks, s.question, s.answer); err != nil {
					s.errMsg = "could not bookmark: " + err.Error()
				} else {
					s.bookmarked = true
				}
			}
		case "n", "N", "enter":
			s.input = components.NewTextInput("Type your question...", false, 0)
			s.phase = phaseQuestion
			return s, s.input.Init()
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	return s, nil
}

// ask sends the question to the tutor asynchronously.
func (s *AskScreen) ask(question string) tea.Cmd {
	subject := subjects[s.subject]
	return func() tea.Msg {
		answer, err := s.tutor.Ask(context.Background(), subject, question)
		return answerMsg{Question: question, Answer: answer, Err: err}
	}
}

// listen records a short clip and transcribes it into the input.
func (s *AskScreen) listen() tea.Cmd {
	return func() tea.Msg {
		text, err := s.recognizer.Listen(context.Background())
		return voiceMsg{Text: text, Err: err}
	}
}

func (s *AskScreen) View(width, height int) string {
	switch s.phase {
	case phaseSubject:
		return s.viewSubject(width)
	case phaseQuestion:
		return s.viewQuestion(width)
	case phaseListening:
		return centerDim(width, fmt.Sprintf("\n\n  Listening%s", dots(s.spinner)))
	case phaseLoading:
		return centerDim(width, fmt.Sprintf("\n\n  Thinking%s", dots(s.spinner)))
	case phaseAnswer:
		return s.viewAnswer(width)
	}
	return ""
}

func (s *AskScreen) viewSubject(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Title.Render("Pick a subject")))
	b.WriteString("\n\n")

	for i, subj := range subjects {
		line := "    " + subj
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.subject {
			line = "  ▸ " + subj
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *AskScreen) viewQuestion(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Subtitle.Render(fmt.Sprintf("Subject: %s", subjects[s.subject]))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
	}
	return b.String()
}

func (s *AskScreen) viewAnswer(width int) string {
	cw := width - 8
	if cw > 76 {
		cw = 76
	}
	if cw < 20 {
		cw = 20
	}

	question := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Width(cw).
		Render("Q: " + s.question)

	answer := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(cw).
		Render(s.answer)

	card := theme.Card.Width(cw).Render(question + "\n\n" + answer)

	out := "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
	if s.bookmarked {
		out += "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Success).Render("★ Bookmarked"))
	}
	if s.errMsg != "" {
		out += "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	return out
}

func centerDim(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(text)
}

func dots(n int) string {
	return strings.Repeat(".", n%4)
}

func spinnerTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
