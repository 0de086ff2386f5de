package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studiz/internal/extract"
	quizcore "github.com/abhisek/studiz/internal/quiz"
	"github.com/abhisek/studiz/internal/router"
	"github.com/abhisek/studiz/internal/screen"
	"github.com/abhisek/studiz/internal/store"
	"github.com/abhisek/studiz/internal/ui/components"
	"github.com/abhisek/studiz/internal/ui/layout"
)

type phase int

const (
	phaseSetup phase = iota
	phaseGenerating
	phaseActive
	phaseFeedback
	phaseDone
)

// setup steps, walked in order before generation starts.
const (
	stepPath = iota
	stepCount
	stepSeconds
)

const feedbackDelay = 900 * time.Millisecond

// QuizScreen runs a timed multiple-choice quiz generated from a PDF.
type QuizScreen struct {
	generator *quizcore.Generator
	events    store.EventRepo
	records   *store.RecordStore

	phase     phase
	setupStep int
	input     components.TextInput
	path      string
	count     int
	seconds   int

	set       quizcore.QuizSet
	session   *quizcore.Session
	choice    components.Choice
	lastEntry quizcore.AnswerRecord
	timedOut  bool
	started   time.Time

	resultSel int
	saved     map[int]bool

	errMsg  string
	spinner int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a new QuizScreen.
func New(generator *quizcore.Generator, events store.EventRepo, records *store.RecordStore) *QuizScreen {
	return &QuizScreen{
		generator: generator,
		events:    events,
		records:   records,
		input:     components.NewTextInput("Path to a PDF of theory material...", false, 0),
		count:     5,
		seconds:   int(quizcore.DefaultTimePerQuestion.Seconds()),
		saved:     make(map[int]bool),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseSetup:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseActive:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Option"},
			{Key: "Enter", Description: "Submit"},
			{Key: "1-4", Description: "Quick pick"},
		}
	case phaseDone:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "B", Description: "Bookmark"},
			{Key: "R", Description: "New quiz"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return nil
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		return s.handleGenerated(msg)

	case timerTickMsg:
		return s.handleTimerTick()

	case spinnerTickMsg:
		if s.phase != phaseGenerating {
			return s, nil
		}
		s.spinner++
		return s, spinnerTick()

	case feedbackDoneMsg:
		return s.handleFeedbackDone()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseSetup {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseSetup:
		if key == "enter" {
			return s.advanceSetup()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseActive:
		// Number keys pick and submit in one press.
		switch key {
		case "1", "2", "3", "4":
			idx := int(key[0] - '1')
			if idx < len(s.choice.Options) {
				s.choice.Selected = idx
				s.choice.Submitted = true
				s.choice.ChosenIndex = idx
				return s.submitChoice()
			}
			return s, nil
		}

		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		if s.choice.Submitted {
			return s.submitChoice()
		}
		return s, cmd

	case phaseFeedback:
		// Any key skips the feedback pause.
		return s.handleFeedbackDone()

	case phaseDone:
		switch key {
		case "up", "k":
			if s.resultSel > 0 {
				s.resultSel--
			}
		case "down", "j":
			if s.resultSel < s.session.Length()-1 {
				s.resultSel++
			}
		case "b", "B":
			s.bookmarkResult()
		case "r", "R":
			fresh := New(s.generator, s.events, s.records)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: fresh} }
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	return s, nil
}

// advanceSetup consumes the current setup field and moves to the next,
// kicking off generation after the last one.
func (s *QuizScreen) advanceSetup() (screen.Screen, tea.Cmd) {
	switch s.setupStep {
	case stepPath:
		path := strings.TrimSpace(s.input.Value())
		if path == "" {
			return s, nil
		}
		s.path = path
		s.setupStep = stepCount
		s.input = components.NewTextInput(fmt.Sprintf("How many questions? (%d-%d)", quizcore.MinQuestions, quizcore.MaxQuestions), true, 2)
		return s, s.input.Init()

	case stepCount:
		n, err := s.input.NumericValue()
		if err != nil || n < quizcore.MinQuestions || n > quizcore.MaxQuestions {
			s.errMsg = fmt.Sprintf("Pick between %d and %d questions", quizcore.MinQuestions, quizcore.MaxQuestions)
			return s, nil
		}
		s.count = n
		s.errMsg = ""
		s.setupStep = stepSeconds
		s.input = components.NewTextInput("Seconds per question? (10-120)", true, 3)
		return s, s.input.Init()

	case stepSeconds:
		n, err := s.input.NumericValue()
		if err != nil {
			s.errMsg = "Enter a number of seconds"
			return s, nil
		}
		s.seconds = n
		s.errMsg = ""
		s.phase = phaseGenerating
		return s, tea.Batch(s.generate(), spinnerTick())
	}
	return s, nil
}

// generate extracts the PDF and asks for a quiz in one background command.
func (s *QuizScreen) generate() tea.Cmd {
	path := s.path
	count := s.count
	return func() tea.Msg {
		material, err := extract.PDF(path)
		if err != nil {
			return generatedMsg{Err: err}
		}
		set, err := s.generator.Generate(context.Background(), material, count)
		if err != nil {
			return generatedMsg{Err: err}
		}
		return generatedMsg{Set: set}
	}
}

func (s *QuizScreen) handleGenerated(msg generatedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		s.phase = phaseSetup
		s.setupStep = stepPath
		s.input = components.NewTextInput("Path to a PDF of theory material...", false, 0)
		return s, s.input.Init()
	}

	s.set = msg.Set
	s.session = quizcore.NewSession(msg.Set, time.Duration(s.seconds)*time.Second)
	s.started = time.Now()
	s.phase = phaseActive
	s.presentQuestion()
	return s, tickCmd()
}

// presentQuestion arms the countdown for the current question and
// builds its choice component.
func (s *QuizScreen) presentQuestion() {
	q, ok := s.session.Current()
	if !ok {
		return
	}
	correct := 0
	for i, opt := range q.Options {
		if quizcore.OptionLabel(opt) == q.CorrectLabel {
			correct = i
			break
		}
	}
	s.choice = components.NewChoice(q.Prompt, q.Options, correct)
}

func (s *QuizScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	if s.phase != phaseActive || s.session == nil {
		return s, nil
	}

	if s.session.Poll() {
		s.timedOut = true
		s.noteLastEntry()
		s.phase = phaseFeedback
		return s, feedbackAfter()
	}
	return s, tickCmd()
}

func (s *QuizScreen) submitChoice() (screen.Screen, tea.Cmd) {
	if s.session == nil || s.session.Finished() {
		return s, nil
	}
	s.session.Submit(s.choice.ChosenOption())
	s.timedOut = false
	s.noteLastEntry()
	s.phase = phaseFeedback
	return s, feedbackAfter()
}

func (s *QuizScreen) noteLastEntry() {
	log := s.session.Log()
	if len(log) > 0 {
		s.lastEntry = log[len(log)-1]
	}
}

func (s *QuizScreen) handleFeedbackDone() (screen.Screen, tea.Cmd) {
	if s.phase != phaseFeedback {
		return s, nil
	}

	if s.session.Finished() {
		s.phase = phaseDone
		s.recordResult()
		return s, nil
	}

	s.phase = phaseActive
	s.presentQuestion()
	return s, tickCmd()
}

// recordResult appends the finished quiz to the event store.
func (s *QuizScreen) recordResult() {
	if s.events == nil {
		return
	}
	_ = s.events.AppendQuizResult(context.Background(), store.QuizEventData{
		Source:              s.path,
		Questions:           s.session.Length(),
		Correct:             s.session.Score(),
		DurationSecs:        int(time.Since(s.started).Seconds()),
		TimePerQuestionSecs: s.seconds,
	})
}

// bookmarkResult saves the selected question with its correct option.
func (s *QuizScreen) bookmarkResult() {
	if s.records == nil || s.saved[s.resultSel] {
		return
	}
	if s.resultSel < 0 || s.resultSel >= len(s.set) {
		return
	}
	q := s.set[s.resultSel]

	answer := q.CorrectLabel
	for _, opt := range q.Options {
		if quizcore.OptionLabel(opt) == q.CorrectLabel {
			answer = opt
			break
		}
	}
	if _, err := s.records.Append(store.KindBookmarks, q.Prompt, answer); err == nil {
		s.saved[s.resultSel] = true
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func spinnerTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func feedbackAfter() tea.Cmd {
	return tea.Tick(feedbackDelay, func(time.Time) tea.Msg {
		return feedbackDoneMsg{}
	})
}
