package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abhisek/studiz/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		results, err := s.EventRepo().QueryQuizResults(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query quiz results: %w", err)
		}

		if len(results) == 0 {
			fmt.Println("No quizzes taken yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-28s  %-7s  %-8s\n",
			"ID", "Timestamp", "Source", "Score", "Duration")
		fmt.Println(strings.Repeat("─", 76))

		var totalQuestions, totalCorrect int
		for _, r := range results {
			source := filepath.Base(r.Source)
			if len(source) > 28 {
				source = source[:28]
			}
			fmt.Printf("%-5d  %-19s  %-28s  %2d / %-2d  %7ds\n",
				r.ID,
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				source,
				r.Correct,
				r.Questions,
				r.DurationSecs,
			)
			totalQuestions += r.Questions
			totalCorrect += r.Correct
		}

		fmt.Println(strings.Repeat("─", 76))
		pct := 0.0
		if totalQuestions > 0 {
			pct = 100 * float64(totalCorrect) / float64(totalQuestions)
		}
		fmt.Printf("%d quizzes, %d / %d correct (%.0f%%)\n",
			len(results), totalCorrect, totalQuestions, pct)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
}
