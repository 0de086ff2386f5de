package speech

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/studiz/internal/llm"
)

func TestNewRecognizer_DefaultsBaseURL(t *testing.T) {
	r := NewRecognizer(llm.GroqConfig{APIKey: "test-key"})
	if r.client == nil {
		t.Fatal("client not built")
	}
	if r.listen != DefaultListen {
		t.Errorf("listen = %v, want %v", r.listen, DefaultListen)
	}
}

func TestListen_RecordFailure(t *testing.T) {
	r := NewRecognizer(llm.GroqConfig{APIKey: "test-key"})
	r.record = func(context.Context, string, time.Duration) error {
		return ErrNoRecorder
	}

	_, err := r.Listen(context.Background())

	var spErr *SpeechError
	if !errors.As(err, &spErr) {
		t.Fatalf("Listen = %v, want SpeechError", err)
	}
	if spErr.Stage != "record" {
		t.Errorf("Stage = %q, want record", spErr.Stage)
	}
	if !errors.Is(err, ErrNoRecorder) {
		t.Error("error chain does not reach ErrNoRecorder")
	}
}

func TestRecorderArgs_DurationSeconds(t *testing.T) {
	for _, args := range recorderArgs("/tmp/clip.wav", 5*time.Second) {
		found := false
		for _, a := range args {
			if a == "5" {
				found = true
			}
		}
		if !found {
			t.Errorf("%s args carry no 5 second duration: %v", args[0], args)
		}
	}
}
