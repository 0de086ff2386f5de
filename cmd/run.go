package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/studiz/internal/app"
	"github.com/abhisek/studiz/internal/llm"
	"github.com/abhisek/studiz/internal/quiz"
	"github.com/abhisek/studiz/internal/screens/home"
	"github.com/abhisek/studiz/internal/speech"
	"github.com/abhisek/studiz/internal/store"
	"github.com/abhisek/studiz/internal/tutor"
	"github.com/spf13/cobra"
)

// runApp opens the stores, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	dataDir, err := store.DataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	records, err := store.OpenRecords(dataDir)
	if err != nil {
		return fmt.Errorf("open records: %w", err)
	}

	eventRepo := st.EventRepo()
	deps := home.Deps{
		Records: records,
		Events:  eventRepo,
	}

	// The app stays usable without a provider: history, bookmarks and
	// the menu all work, AI entries are marked unavailable.
	provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
	} else {
		deps.Tutor = tutor.New(provider)
		deps.Generator = quiz.NewGenerator(provider)
		deps.ModelID = provider.ModelID()
		deps.Recognizer = speechRecognizer()
	}

	return app.Run(app.Options{Deps: deps})
}

// speechRecognizer builds a voice recognizer when a Groq key is
// available; transcription goes through Groq's whisper endpoint.
func speechRecognizer() *speech.Recognizer {
	cfg := llm.ConfigFromEnv()
	if cfg.Groq.APIKey == "" {
		if discovered, ok := llm.DiscoverConfig(); ok && discovered.Groq.APIKey != "" {
			cfg = discovered
		} else {
			return nil
		}
	}
	return speech.NewRecognizer(cfg.Groq)
}
