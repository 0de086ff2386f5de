package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestRecords_AppendListRemove(t *testing.T) {
	dir := t.TempDir()
	rs, err := OpenRecords(dir)
	if err != nil {
		t.Fatalf("OpenRecords: %v", err)
	}

	rec, err := rs.Append(KindHistory, "What is osmosis?", "Movement of water across a membrane.")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if rec.ID == "" {
		t.Error("appended record has no ID")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("appended record has no timestamp")
	}

	got := rs.List(KindHistory)
	if len(got) != 1 {
		t.Fatalf("List returned %d records, want 1", len(got))
	}
	if got[0].Question != "What is osmosis?" {
		t.Errorf("Question = %q", got[0].Question)
	}

	if err := rs.Remove(KindHistory, rec.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := rs.List(KindHistory); len(got) != 0 {
		t.Errorf("List after Remove returned %d records, want 0", len(got))
	}
}

func TestRecords_RemoveByIDWithDuplicateText(t *testing.T) {
	rs, err := OpenRecords(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first, _ := rs.Append(KindBookmarks, "Define inertia.", "Resistance to change in motion.")
	second, _ := rs.Append(KindBookmarks, "Define inertia.", "Resistance to change in motion.")

	if err := rs.Remove(KindBookmarks, first.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	got := rs.List(KindBookmarks)
	if len(got) != 1 {
		t.Fatalf("List returned %d records, want 1", len(got))
	}
	if got[0].ID != second.ID {
		t.Error("removal by ID deleted the wrong duplicate")
	}
}

func TestRecords_RemoveUnknownIDIsNoOp(t *testing.T) {
	rs, err := OpenRecords(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rs.Append(KindHistory, "q", "a")

	if err := rs.Remove(KindHistory, "no-such-id"); err != nil {
		t.Fatalf("Remove unknown id: %v", err)
	}
	if len(rs.List(KindHistory)) != 1 {
		t.Error("Remove of an unknown id changed the list")
	}
}

func TestRecords_PersistAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	rs, err := OpenRecords(dir)
	if err != nil {
		t.Fatal(err)
	}
	rec, _ := rs.Append(KindBookmarks, "What is a mole?", "6.022e23 entities.")

	reopened, err := OpenRecords(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.List(KindBookmarks)
	if len(got) != 1 || got[0].ID != rec.ID {
		t.Fatalf("reopened store returned %+v", got)
	}
}

func TestRecords_MissingFilesMeanEmpty(t *testing.T) {
	rs, err := OpenRecords(t.TempDir())
	if err != nil {
		t.Fatalf("OpenRecords on empty dir: %v", err)
	}
	if len(rs.List(KindHistory)) != 0 || len(rs.List(KindBookmarks)) != 0 {
		t.Error("fresh store is not empty")
	}
}

func TestRecords_FileFormat(t *testing.T) {
	dir := t.TempDir()
	rs, err := OpenRecords(dir)
	if err != nil {
		t.Fatal(err)
	}
	rs.Append(KindHistory, "q", "a")

	path := rs.Path(KindHistory)
	if filepath.Base(path) != "chat_history.json" {
		t.Errorf("history file = %q, want chat_history.json", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var parsed []map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("history file is not a JSON array: %v", err)
	}
	if len(data) == 0 || data[0] != '[' {
		t.Error("file does not start with a JSON array")
	}
}

func TestRecords_RejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat_history.json")
	if err := os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := OpenRecords(dir); err == nil {
		t.Fatal("OpenRecords accepted a non-array history file")
	}
}

func TestRecords_LoadsLegacyFileWithoutIDs(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"question": "What is osmosis?", "answer": "Water movement."}]`
	path := filepath.Join(dir, "chat_history.json")
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	rs, err := OpenRecords(dir)
	if err != nil {
		t.Fatalf("OpenRecords on legacy file: %v", err)
	}

	got := rs.List(KindHistory)
	if len(got) != 1 {
		t.Fatalf("List returned %d records, want 1", len(got))
	}
	if got[0].ID == "" {
		t.Error("legacy record was not assigned an ID")
	}
	if got[0].Question != "What is osmosis?" {
		t.Errorf("Question = %q", got[0].Question)
	}

	// The file is rewritten with IDs so removal works on reopen.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var parsed []map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatal(err)
	}
	if id, _ := parsed[0]["id"].(string); id == "" {
		t.Error("upgraded file does not carry IDs")
	}

	if err := rs.Remove(KindHistory, got[0].ID); err != nil {
		t.Fatalf("Remove upgraded record: %v", err)
	}
	if len(rs.List(KindHistory)) != 0 {
		t.Error("upgraded record not removable by ID")
	}
}

func TestRecords_AppendRollsBackOnSaveFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "records")
	rs, err := OpenRecords(dir)
	if err != nil {
		t.Fatal(err)
	}

	// Take the backing directory away so the flush fails.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	if _, err := rs.Append(KindHistory, "q", "a"); err == nil {
		t.Fatal("Append succeeded with no backing directory")
	}
	if got := rs.List(KindHistory); len(got) != 0 {
		t.Errorf("failed Append left %d records in memory, want 0", len(got))
	}
}
