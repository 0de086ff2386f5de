package quiz

import "time"

// NoAnswer is the sentinel recorded in the answer log when a question
// times out before a submission.
const NoAnswer = "(No Answer)"

// Bounds for the per-question countdown, chosen before generation and
// fixed for the whole session.
const (
	MinTimePerQuestion     = 10 * time.Second
	MaxTimePerQuestion     = 120 * time.Second
	DefaultTimePerQuestion = 20 * time.Second
)

// AnswerRecord is one entry in the session's answer log.
type AnswerRecord struct {
	Question     string
	CorrectLabel string
	Submitted    string // chosen label, or NoAnswer
}

// Session drives one pass over a QuizSet: question presentation,
// per-question deadline, answer submission, scoring, and the final
// summary. The state machine is AwaitingAnswer(i) for each index i,
// then Finished once the index reaches the set length.
//
// Timeouts are passive: the session never schedules anything. The host
// calls Poll on each inspection (a UI tick, a key event) and the
// session compares the wall clock against the armed deadline then. A
// submission that races a passed deadline wins if it is observed first.
type Session struct {
	set         QuizSet
	perQuestion time.Duration

	index    int
	score    int
	log      []AnswerRecord
	deadline time.Time

	now func() time.Time
}

// NewSession creates a session over the given set, in state
// AwaitingAnswer(0) with an empty log. perQuestion is clamped into
// [MinTimePerQuestion, MaxTimePerQuestion].
func NewSession(set QuizSet, perQuestion time.Duration) *Session {
	if perQuestion < MinTimePerQuestion {
		perQuestion = MinTimePerQuestion
	}
	if perQuestion > MaxTimePerQuestion {
		perQuestion = MaxTimePerQuestion
	}
	return &Session{
		set:         set,
		perQuestion: perQuestion,
		now:         time.Now,
	}
}

// Current returns the active question. The first inspection of each
// index arms that question's deadline; re-inspection (a display
// refresh) never resets it.
func (s *Session) Current() (Question, bool) {
	if s.Finished() {
		return Question{}, false
	}
	if s.deadline.IsZero() {
		s.deadline = s.now().Add(s.perQuestion)
	}
	return s.set[s.index], true
}

// Remaining reports the time left on the current question's clock.
// Zero when the deadline has passed or hasn't been armed yet.
func (s *Session) Remaining() time.Duration {
	if s.Finished() || s.deadline.IsZero() {
		return 0
	}
	rem := s.deadline.Sub(s.now())
	if rem < 0 {
		return 0
	}
	return rem
}

// Poll applies the timeout transition when the armed deadline has
// passed: it logs NoAnswer for the current question and advances.
// Returns true when a timeout was taken. Idempotent per index:
// advancing clears the deadline, so repeated polling cannot log the
// same question twice.
func (s *Session) Poll() bool {
	if s.Finished() || s.deadline.IsZero() {
		return false
	}
	if s.now().Before(s.deadline) {
		return false
	}

	q := s.set[s.index]
	s.log = append(s.log, AnswerRecord{
		Question:     q.Prompt,
		CorrectLabel: q.CorrectLabel,
		Submitted:    NoAnswer,
	})
	s.advance()
	return true
}

// Submit records the user's chosen option (the full option string; the
// leading label is extracted here), scores it, and advances. Returns
// whether the answer was correct, and false for ok once the session is
// finished.
func (s *Session) Submit(option string) (correct, ok bool) {
	if s.Finished() {
		return false, false
	}

	q := s.set[s.index]
	label := OptionLabel(option)
	s.log = append(s.log, AnswerRecord{
		Question:     q.Prompt,
		CorrectLabel: q.CorrectLabel,
		Submitted:    label,
	})
	if label == q.CorrectLabel {
		s.score++
		correct = true
	}
	s.advance()
	return correct, true
}

func (s *Session) advance() {
	s.index++
	s.deadline = time.Time{}
}

// Finished reports whether every question has been answered or timed
// out. A finished session is read-only: Submit and Poll both refuse to
// mutate it.
func (s *Session) Finished() bool {
	return s.index >= len(s.set)
}

// Index returns the 0-based position of the current question.
func (s *Session) Index() int { return s.index }

// Length returns the number of questions in the set.
func (s *Session) Length() int { return len(s.set) }

// Score returns the count of correct answers so far.
func (s *Session) Score() int { return s.score }

// Log returns a copy of the answer log in question order.
func (s *Session) Log() []AnswerRecord {
	out := make([]AnswerRecord, len(s.log))
	copy(out, s.log)
	return out
}
