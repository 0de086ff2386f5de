package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// RecordKind selects one of the two persisted record lists.
type RecordKind string

const (
	KindHistory   RecordKind = "history"
	KindBookmarks RecordKind = "bookmarks"
)

// recordFiles maps each kind to its backing file name. The names match
// the files earlier releases wrote, so existing data keeps loading.
var recordFiles = map[RecordKind]string{
	KindHistory:   "chat_history.json",
	KindBookmarks: "bookmarked_questions.json",
}

// Record is one question/answer pair in a persisted list. ID is a UUID
// assigned at creation time and is the removal key: two records with
// identical question text never collide.
type Record struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordStore holds the history and bookmark lists in memory and
// rewrites the backing file wholesale after every mutation. There is
// exactly one mutator (the single user session), so no locking.
type RecordStore struct {
	dir   string
	lists map[RecordKind][]Record
}

// OpenRecords loads both record lists from dir. A missing file yields
// an empty list; a file that fails schema validation is an error.
func OpenRecords(dir string) (*RecordStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create record dir: %w", err)
	}

	s := &RecordStore{
		dir:   dir,
		lists: make(map[RecordKind][]Record),
	}

	for kind := range recordFiles {
		records, upgraded, err := s.load(kind)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", kind, err)
		}
		s.lists[kind] = records
		if upgraded {
			if err := s.save(kind); err != nil {
				return nil, fmt.Errorf("upgrade %s: %w", kind, err)
			}
		}
	}

	return s, nil
}

// List returns a copy of the records of the given kind, in insertion order.
func (s *RecordStore) List(kind RecordKind) []Record {
	out := make([]Record, len(s.lists[kind]))
	copy(out, s.lists[kind])
	return out
}

// Append adds a record to the list and flushes the whole list to disk.
// Duplicates are allowed; history in particular keeps every asked
// question in chronological order.
func (s *RecordStore) Append(kind RecordKind, question, answer string) (Record, error) {
	rec := Record{
		ID:        uuid.New().String(),
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}
	s.lists[kind] = append(s.lists[kind], rec)

	if err := s.save(kind); err != nil {
		// Keep memory and disk in step: a record that never reached
		// the file is not in the list either.
		s.lists[kind] = s.lists[kind][:len(s.lists[kind])-1]
		return Record{}, err
	}
	return rec, nil
}

// Remove deletes the record with the given ID and flushes. Removing an
// unknown ID is a no-op.
func (s *RecordStore) Remove(kind RecordKind, id string) error {
	list := s.lists[kind]
	kept := list[:0]
	for _, r := range list {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.lists[kind] = kept
	return s.save(kind)
}

// Path returns the backing file path for a kind.
func (s *RecordStore) Path(kind RecordKind) string {
	return filepath.Join(s.dir, recordFiles[kind])
}

// load reads one record file. Files written before IDs existed carry
// bare {question, answer} objects; those records get a UUID assigned
// here and upgraded reports that the file needs rewriting.
func (s *RecordStore) load(kind RecordKind) ([]Record, bool, error) {
	data, err := os.ReadFile(s.Path(kind))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if err := validateRecordFile(data); err != nil {
		return nil, false, err
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("parse record file: %w", err)
	}

	upgraded := false
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.New().String()
			upgraded = true
		}
	}
	return records, upgraded, nil
}

// save serializes the current in-memory list and atomically replaces
// the backing file (write to temp, then rename).
func (s *RecordStore) save(kind RecordKind) error {
	list := s.lists[kind]
	if list == nil {
		list = []Record{}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", kind, err)
	}

	path := s.Path(kind)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", kind, err)
	}
	return nil
}

// recordFileSchema describes a persisted record list. Loaded files are
// validated before use so a hand-edited or corrupted file surfaces a
// clear error instead of silently dropping fields.
var recordFileSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"question", "answer"},
		"properties": map[string]any{
			"id":         map[string]any{"type": "string"},
			"question":   map[string]any{"type": "string"},
			"answer":     map[string]any{"type": "string"},
			"created_at": map[string]any{"type": "string"},
		},
	},
}

var (
	compiledRecordSchema *jsonschema.Schema
	compileRecordOnce    sync.Once
	compileRecordErr     error
)

func validateRecordFile(data []byte) error {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compileRecordOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://records.json", recordFileSchema); err != nil {
			compileRecordErr = err
			return
		}
		compiledRecordSchema, compileRecordErr = c.Compile("schema://records.json")
	})
	if compileRecordErr != nil {
		return fmt.Errorf("compile record schema: %w", compileRecordErr)
	}

	if err := compiledRecordSchema.Validate(parsed); err != nil {
		return fmt.Errorf("record file does not match expected shape: %w", err)
	}
	return nil
}
