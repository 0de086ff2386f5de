package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studiz/internal/extract"
	"github.com/abhisek/studiz/internal/router"
	"github.com/abhisek/studiz/internal/screen"
	"github.com/abhisek/studiz/internal/store"
	"github.com/abhisek/studiz/internal/tutor"
	"github.com/abhisek/studiz/internal/ui/components"
	"github.com/abhisek/studiz/internal/ui/layout"
	"github.com/abhisek/studiz/internal/ui/theme"
)

type phase int

const (
	phasePath phase = iota
	phaseExtracting
	phaseQuestion
	phaseLoading
	phaseAnswer
)

// extractedMsg carries the text pulled out of the PDF.
type extractedMsg struct {
	Path string
	Text string
	Err  error
}

// answerMsg carries the tutor's reply grounded in the notes.
type answerMsg struct {
	Question string
	Answer   string
	Err      error
}

type spinnerTickMsg time.Time

// NotesScreen answers questions about an uploaded PDF of study notes.
type NotesScreen struct {
	tutor   *tutor.Tutor
	records *store.RecordStore

	phase      phase
	input      components.TextInput
	path       string
	notes      string
	question   string
	answer     string
	bookmarked bool
	errMsg     string
	spinner    int
}

var _ screen.Screen = (*NotesScreen)(nil)
var _ screen.KeyHintProvider = (*NotesScreen)(nil)

// New creates a new NotesScreen.
func New(tut *tutor.Tutor, records *store.RecordStore) *NotesScreen {
	return &NotesScreen{
		tutor:   tut,
		records: records,
		input:   components.NewTextInput("Path to a PDF of your notes...", false, 0),
	}
}

func (s *NotesScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *NotesScreen) Title() string {
	return "Study From Notes"
}

func (s *NotesScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phasePath, phaseQuestion:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
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

func (s *NotesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case extractedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.phase = phasePath
			return s, nil
		}
		s.path = msg.Path
		s.notes = msg.Text
		s.errMsg = ""
		s.input = components.NewTextInput("Ask about these notes...", false, 0)
		s.phase = phaseQuestion
		return s, s.input.Init()

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

	case spinnerTickMsg:
		if s.phase != phaseExtracting && s.phase != phaseLoading {
			return s, nil
		}
		s.spinner++
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phasePath || s.phase == phaseQuestion {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *NotesScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phasePath:
		if key == "enter" {
			path := strings.TrimSpace(s.input.Value())
			if path == "" {
				return s, nil
			}
			s.phase = phaseExtracting
			s.errMsg = ""
			return s, tea.Batch(extractCmd(path), spinnerTick())
		}

	case phaseQuestion:
		if key == "enter" {
			question := strings.TrimSpace(s.input.Value())
			if question == "" {
				return s, nil
			}
			s.phase = phaseLoading
			s.errMsg = ""
			return s, tea.Batch(s.ask(question), spinnerTick())
		}

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
			return s, nil
		case "n", "N", "enter":
			s.input = components.NewTextInput("Ask about these notes...", false, 0)
			s.phase = phaseQuestion
			return s, s.input.Init()
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func extractCmd(path string) tea.Cmd {
	return func() tea.Msg {
		text, err := extract.PDF(path)
		return extractedMsg{Path: path, Text: text, Err: err}
	}
}

func (s *NotesScreen) ask(question string) tea.Cmd {
	notes := s.notes
	return func() tea.Msg {
		answer, err := s.tutor.AskFromNotes(context.Background(), notes, question)
		return answerMsg{Question: question, Answer: answer, Err: err}
	}
}

func (s *NotesScreen) View(width, height int) string {
	switch s.phase {
	case phasePath:
		return s.viewInput(width, "Load your study notes", "")
	case phaseExtracting:
		return centerDim(width, fmt.Sprintf("\n\n  Reading PDF%s", dots(s.spinner)))
	case phaseQuestion:
		loaded := fmt.Sprintf("%s — %d characters loaded", s.path, len(s.notes))
		return s.viewInput(width, "Ask about your notes", loaded)
	case phaseLoading:
		return centerDim(width, fmt.Sprintf("\n\n  Thinking%s", dots(s.spinner)))
	case phaseAnswer:
		return s.viewAnswer(width)
	}
	return ""
}

func (s *NotesScreen) viewInput(width int, title, subtitle string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Title.Render(title)))
	if subtitle != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Subtitle.Render(subtitle)))
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
	}
	return b.String()
}

func (s *NotesScreen) viewAnswer(width int) string {
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
