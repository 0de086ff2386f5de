package ask

import (
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studiz/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// brokenRecords returns a RecordStore whose backing directory has been
// removed, so every flush fails.
func brokenRecords(t *testing.T) *store.RecordStore {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "records")
	records, err := store.OpenRecords(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	return records
}

func TestAnswer_SaveFailureSurfaces(t *testing.T) {
	s := New(nil, brokenRecords(t), nil)
	s.phase = phaseLoading

	next, _ := s.Update(answerMsg{Question: "What is osmosis?", Answer: "Water movement."})

	got := next.(*AskScreen)
	if got.phase != phaseAnswer {
		t.Fatalf("phase = %v, want phaseAnswer", got.phase)
	}
	if got.errMsg == "" {
		t.Error("history save failure was not surfaced")
	}
	if len(got.records.List(store.KindHistory)) != 0 {
		t.Error("failed save left the record in the history list")
	}
}

func TestBookmark_SaveFailureSurfaces(t *testing.T) {
	s := New(nil, brokenRecords(t), nil)
	s.phase = phaseAnswer
	s.question = "What is osmosis?"
	s.answer = "Water movement."

	next, _ := s.Update(keyPress('b'))

	got := next.(*AskScreen)
	if got.bookmarked {
		t.Error("screen marked as bookmarked although the save failed")
	}
	if got.errMsg == "" {
		t.Error("bookmark save failure was not surfaced")
	}
}
