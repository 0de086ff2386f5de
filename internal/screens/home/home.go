package home

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studiz/internal/quiz"
	"github.com/abhisek/studiz/internal/router"
	"github.com/abhisek/studiz/internal/screen"
	"github.com/abhisek/studiz/internal/screens/ask"
	"github.com/abhisek/studiz/internal/screens/bookmarks"
	"github.com/abhisek/studiz/internal/screens/history"
	"github.com/abhisek/studiz/internal/screens/imagedoubt"
	"github.com/abhisek/studiz/internal/screens/notes"
	quizscreen "github.com/abhisek/studiz/internal/screens/quiz"
	"github.com/abhisek/studiz/internal/speech"
	"github.com/abhisek/studiz/internal/store"
	"github.com/abhisek/studiz/internal/tutor"
	"github.com/abhisek/studiz/internal/ui/components"
)

// Deps carries the shared services every feature screen draws from.
type Deps struct {
	Tutor      *tutor.Tutor
	Generator  *quiz.Generator
	Records    *store.RecordStore
	Events     store.EventRepo
	Recognizer *speech.Recognizer
	ModelID    string
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu       components.Menu
	menuLabels []string
	historyLen int
	bookmarks  int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	menuLabels := []string{
		"ASK TUTOR",
		"STUDY FROM NOTES",
		"PHOTO DOUBT",
		"TAKE A QUIZ",
		"BOOKMARKS",
		"HISTORY",
		"EXIT",
	}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: build()}
			}
		}
	}

	// AI entries stay visible but inert when no provider is configured.
	noAI := deps.Tutor == nil

	items := []components.MenuItem{
		{Label: menuLabels[0], Disabled: noAI, Action: push(func() screen.Screen {
			return ask.New(deps.Tutor, deps.Records, deps.Recognizer)
		})},
		{Label: menuLabels[1], Disabled: noAI, Action: push(func() screen.Screen {
			return notes.New(deps.Tutor, deps.Records)
		})},
		{Label: menuLabels[2], Disabled: noAI, Action: push(func() screen.Screen {
			return imagedoubt.New(deps.Tutor, deps.Records)
		})},
		{Label: menuLabels[3], Disabled: deps.Generator == nil, Action: push(func() screen.Screen {
			return quizscreen.New(deps.Generator, deps.Events, deps.Records)
		})},
		{Label: menuLabels[4], Action: push(func() screen.Screen {
			return bookmarks.New(deps.Records)
		})},
		{Label: menuLabels[5], Action: push(func() screen.Screen {
			return history.New(deps.Records, deps.Events)
		})},
		{Label: menuLabels[6], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	var historyLen, bookmarkLen int
	if deps.Records != nil {
		historyLen = len(deps.Records.List(store.KindHistory))
		bookmarkLen = len(deps.Records.List(store.KindBookmarks))
	}

	return &HomeScreen{
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
		historyLen: historyLen,
		bookmarks:  bookmarkLen,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 22 || width < 100
	return renderDesk(h.menuLabels, h.menu.Selected, h.historyLen, h.bookmarks, width, height, compact)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
