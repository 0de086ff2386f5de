package bookmarks

import (
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

// BookmarksScreen lists saved questions for review.
type BookmarksScreen struct {
	records  *store.RecordStore
	items    []store.Record
	selected int
	expanded map[string]bool
	errMsg   string
}

var _ screen.Screen = (*BookmarksScreen)(nil)
var _ screen.KeyHintProvider = (*BookmarksScreen)(nil)

// New creates a new BookmarksScreen.
func New(records *store.RecordStore) *BookmarksScreen {
	s := &BookmarksScreen{
		records:  records,
		expanded: make(map[string]bool),
	}
	s.reload()
	return s
}

func (s *BookmarksScreen) reload() {
	if s.records == nil {
		return
	}
	s.items = s.records.List(store.KindBookmarks)
	if s.selected >= len(s.items) {
		s.selected = len(s.items) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *BookmarksScreen) Init() tea.Cmd {
	return nil
}

func (s *BookmarksScreen) Title() string {
	return "Bookmarks"
}

func (s *BookmarksScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Show answer"},
		{Key: "D", Description: "Delete"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *BookmarksScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
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
	case "d", "D":
		if s.selected < len(s.items) {
			if err := s.records.Remove(store.KindBookmarks, s.items[s.selected].ID); err != nil {
				s.errMsg = err.Error()
			} else {
				s.reload()
			}
		}
	}
	return s, nil
}

func (s *BookmarksScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if len(s.items) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing bookmarked yet. Press B on any answer to save it.")
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

		date := rec.CreatedAt.Format("Jan 02")
		line := fmt.Sprintf("%s★ %s  %s", prefix, date, rec.Question)
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

	return b.String()
}
