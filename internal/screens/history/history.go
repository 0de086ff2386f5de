package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studiz/internal/router"
	"github.com/abhisek/studiz/internal/screen"
	"github.com/abhisek/studiz/internal/store"
	"github.com/abhisek/studiz/internal/ui/layout"
	"github.com/abhisek/studiz/internal/ui/theme"
)

// HistoryScreen lists every question asked, newest last, with recent
// quiz results below.
type HistoryScreen struct {
	records  *store.RecordStore
	events   store.EventRepo
	items    []store.Record
	quizzes  []store.QuizEventRecord
	selected int
	expanded map[string]bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(records *store.RecordStore, events store.EventRepo) *HistoryScreen {
	s := &HistoryScreen{
		records:  records,
		events:   events,
		expanded: make(map[string]bool),
	}
	s.reload()
	return s
}

func (s *HistoryScreen) reload() {
	if s.records == nil {
		return
	}
	s.items = s.records.List(store.KindHistory)
	if s.selected >= len(s.items) {
		s.selected = len(s.items) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
	if s.events != nil {
		if results, err := s.events.QueryQuizResults(context.Background(), store.QueryOpts{Limit: 5}); err == nil {
			s.quizzes = results
		}
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Show answer"},
		{Key: "B", Description: "Bookmark"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.items)-1 {
			s.selected++
		}
	case "enter":
		if s.selected < len(s.items) {
			id := s.items[s.selected].ID
			s.expanded[id] = !s.expanded[id]
		}
	case "b", "B":
		if s.selected < len(s.items) {
			rec := s.items[s.selected]
			if _, err := s.records.Append(store.KindBookmarks, rec.Question, rec.Answer); err != nil {
				s.errMsg = err.Error()
			}
		}
	case "d", "D":
		if s.selected < len(s.items) {
			if err := s.records.Remove(store.KindHistory, s.items[s.selected].ID); err != nil {
				s.errMsg = err.Error()
			} else {
				s.reload()
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if len(s.items) == 0 && len(s.quizzes) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No questions asked yet. Go ask the tutor something!")
	}

	cw := width - 8
	if cw > 76 {
		cw = 76
	}
	if cw < 20 {
		cw = 20
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.items {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}

		date := rec.CreatedAt.Format("Jan 02 15:04")
		line := fmt.Sprintf("%s%s  %s", prefix, date, rec.Question)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Width(cw).Render(line)))
		b.WriteString("\n")

		if s.expanded[rec.ID] {
			answer := lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Width(cw - 4).
				Render(rec.Answer)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, answer))
			b.WriteString("\n")
		}
	}

	if len(s.quizzes) > 0 {
		header := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
			Render("Recent quizzes")
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(cw).Render(header)))
		b.WriteString("\n")
		for _, q := range s.quizzes {
			line := fmt.Sprintf("  %s  %d / %d correct  (%ds)",
				q.Timestamp.Format("Jan 02 15:04"), q.Correct, q.Questions, q.DurationSecs)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
