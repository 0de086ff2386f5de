package imagedoubt

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
	phaseWorking
	phaseAnswer
)

// solvedMsg carries the OCR text and the tutor's explanation. OCR and
// the completion run back to back in one command, mirroring the single
// snap-and-solve gesture.
type solvedMsg struct {
	Extracted string
	Answer    string
	Err       error
}

type spinnerTickMsg time.Time

// DoubtScreen solves a problem photographed by the learner.
type DoubtScreen struct {
	tutor   *tutor.Tutor
	records *store.RecordStore

	phase      phase
	input      components.TextInput
	extracted  string
	answer     string
	bookmarked bool
	errMsg     string
	spinner    int
}

var _ screen.Screen = (*DoubtScreen)(nil)
var _ screen.KeyHintProvider = (*DoubtScreen)(nil)

// New creates a new DoubtScreen.
func New(tut *tutor.Tutor, records *store.RecordStore) *DoubtScreen {
	return &DoubtScreen{
		tutor:   tut,
		records: records,
		input:   components.NewTextInput("Path to a photo of the problem...", false, 0),
	}
}

func (s *DoubtScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *DoubtScreen) Title() string {
	return "Photo Doubt"
}

func (s *DoubtScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phasePath:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Solve"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseAnswer:
		return []layout.KeyHint{
			{Key: "B", Description: "Bookmark"},
			{Key: "N", Description: "Another photo"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return nil
	}
}

func (s *DoubtScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case solvedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.phase = phasePath
			return s, nil
		}
		s.extracted = msg.Extracted
		s.answer = msg.Answer
		s.errMsg = ""
		s.bookmarked = false
		s.phase = phaseAnswer
		if s.records != nil {
			if _, err := s.records.Append(store.KindHistory, msg.Extracted, msg.Answer); err != nil {
				s.errMsg = "could not save to history: " + err.Error()
			}
		}
		return s, nil

	case spinnerTickMsg:
		if s.phase != phaseWorking {
			return s, nil
		}
		s.spinner++
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phasePath {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DoubtScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phasePath:
		if key == "enter" {
			path := strings.TrimSpace(s.input.Value())
			if path == "" {
				return s, nil
			}
			s.phase = phaseWorking
			s.errMsg = ""
			return s, tea.Batch(s.solve(path), spinnerTick())
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseAnswer:
		switch key {
		case "b", "B":
			if s.records != nil && !s.bookmarked {
				if _, err := s.records.Append(store.KindBookmarks, s.extracted, s.answer); err != nil {
					s.errMsg = "could not bookmark: " + err.Error()
				} else {
					s.bookmarked = true
				}
			}
		case "n", "N", "enter":
			s.input = components.NewTextInput("Path to a photo of the problem...", false, 0)
			s.phase = phasePath
			return s, s.input.Init()
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	return s, nil
}

// solve runs OCR and the tutor call in one background command.
func (s *DoubtScreen) solve(path string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		text, err := extract.Image(ctx, path)
		if err != nil {
			return solvedMsg{Err: err}
		}
		answer, err := s.tutor.AskFromImage(ctx, text)
		if err != nil {
			return solvedMsg{Err: err}
		}
		return solvedMsg{Extracted: text, Answer: answer}
	}
}

func (s *DoubtScreen) View(width, height int) string {
	switch s.phase {
	case phasePath:
		var b strings.Builder
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Title.Render("Snap a doubt")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Subtitle.Render("Point me at a photo of the problem you're stuck on")))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
		if s.errMsg != "" {
			b.WriteString("\n\n")
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
		}
		return b.String()

	case phaseWorking:
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("\n\n  Reading and solving%s", strings.Repeat(".", s.spinner%4)))

	case phaseAnswer:
		cw := width - 8
		if cw > 76 {
			cw = 76
		}
		if cw < 20 {
			cw = 20
		}

		extractedBlock := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Width(cw).
			Render("Read from photo: " + s.extracted)

		answer := lipgloss.NewStyle().
			Foreground(theme.Text).
			Width(cw).
			Render(s.answer)

		card := theme.Card.Width(cw).Render(extractedBlock + "\n\n" + answer)

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
	return ""
}

func spinnerTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
