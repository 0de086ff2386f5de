package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/studiz/internal/llm"
	"github.com/abhisek/studiz/internal/store"
	"github.com/abhisek/studiz/internal/tutor"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the tutor a single question without entering the TUI",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		question := strings.Join(args, " ")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		provider, err := llm.NewProviderFromEnv(cmd.Context(), st.EventRepo())
		if err != nil {
			return fmt.Errorf("no LLM provider configured: %w", err)
		}

		answer, err := tutor.New(provider).Ask(cmd.Context(), subject, question)
		if err != nil {
			return err
		}
		fmt.Println(answer)

		dataDir, err := store.DataDir()
		if err != nil {
			return nil
		}
		if records, err := store.OpenRecords(dataDir); err == nil {
			_, _ = records.Append(store.KindHistory, question, answer)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringP("subject", "s", "General", "Subject the question belongs to")
}
