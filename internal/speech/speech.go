// Package speech captures a short microphone clip and turns it into
// text with a hosted whisper model. Recording shells out to whatever
// capture tool is installed; transcription goes through the same
// OpenAI-compatible endpoint the chat providers use.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/studiz/internal/llm"
)

// Fallback is what a caller should show when nothing usable was heard.
const Fallback = "Sorry, I couldn't understand that."

// DefaultListen is how long a single capture runs.
const DefaultListen = 5 * time.Second

const whisperModel = "whisper-large-v3"

// ErrNoRecorder is returned when no supported capture tool is installed.
var ErrNoRecorder = errors.New("no audio recorder found (need arecord, sox, or ffmpeg)")

// SpeechError wraps failures in the capture or transcription pipeline.
type SpeechError struct {
	Stage string // "record" or "transcribe"
	Err   error
}

func (e *SpeechError) Error() string {
	return fmt.Sprintf("speech %s: %v", e.Stage, e.Err)
}

func (e *SpeechError) Unwrap() error {
	return e.Err
}

// Recognizer records and transcribes spoken questions.
type Recognizer struct {
	client *openai.Client
	listen time.Duration

	// record is swappable in tests.
	record func(ctx context.Context, dest string, d time.Duration) error
}

// NewRecognizer builds a Recognizer against the given Groq credentials.
func NewRecognizer(cfg llm.GroqConfig) *Recognizer {
	c := openai.DefaultConfig(cfg.APIKey)
	c.BaseURL = cfg.BaseURL
	if c.BaseURL == "" {
		c.BaseURL = llm.DefaultGroqBaseURL
	}
	return &Recognizer{
		client: openai.NewClientWithConfig(c),
		listen: DefaultListen,
		record: recordClip,
	}
}

// Listen captures one clip from the default microphone and returns its
// transcription. An empty transcription is not an error; callers show
// Fallback in that case.
func (r *Recognizer) Listen(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "studiz-speech-")
	if err != nil {
		return "", &SpeechError{Stage: "record", Err: err}
	}
	defer os.RemoveAll(dir)

	clip := filepath.Join(dir, "clip.wav")
	if err := r.record(ctx, clip, r.listen); err != nil {
		return "", &SpeechError{Stage: "record", Err: err}
	}
	return r.Transcribe(ctx, clip)
}

// Transcribe sends the audio file at path to the whisper endpoint.
func (r *Recognizer) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := r.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    whisperModel,
		FilePath: path,
	})
	if err != nil {
		return "", &SpeechError{Stage: "transcribe", Err: err}
	}
	return strings.TrimSpace(resp.Text), nil
}

// recorder candidates in preference order, each with the argument list
// that captures mono 16 kHz WAV to the destination path.
func recorderArgs(dest string, d time.Duration) [][]string {
	secs := fmt.Sprintf("%d", int(d.Seconds()))
	return [][]string{
		{"arecord", "-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-d", secs, dest},
		{"sox", "-q", "-d", "-r", "16000", "-c", "1", dest, "trim", "0", secs},
		{"ffmpeg", "-loglevel", "error", "-f", "alsa", "-i", "default", "-t", secs, "-ar", "16000", "-ac", "1", "-y", dest},
	}
}

func recordClip(ctx context.Context, dest string, d time.Duration) error {
	for _, args := range recorderArgs(dest, d) {
		bin, err := exec.LookPath(args[0])
		if err != nil {
			continue
		}
		cmd := exec.CommandContext(ctx, bin, args[1:]...)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return nil
	}
	return ErrNoRecorder
}
