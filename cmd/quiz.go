package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/studiz/internal/extract"
	"github.com/abhisek/studiz/internal/llm"
	"github.com/abhisek/studiz/internal/quiz"
	"github.com/abhisek/studiz/internal/store"
	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <notes.pdf>",
	Short: "Run a timed quiz in the terminal without the TUI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		seconds, _ := cmd.Flags().GetInt("seconds")

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

		material, err := extract.PDF(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Generating %d questions from %s...\n\n", count, args[0])
		set, err := quiz.NewGenerator(provider).Generate(cmd.Context(), material, count)
		if err != nil {
			return err
		}

		perQuestion := time.Duration(seconds) * time.Second
		session := quiz.NewSession(set, perQuestion)
		started := time.Now()

		// One reader goroutine feeds typed lines; the quiz loop selects
		// between an answer and the deadline.
		lines := make(chan string)
		go func() {
			sc := bufio.NewScanner(os.Stdin)
			for sc.Scan() {
				lines <- strings.TrimSpace(sc.Text())
			}
			close(lines)
		}()

		inputClosed := false
		for !session.Finished() && !inputClosed {
			q, ok := session.Current()
			if !ok {
				break
			}
			fmt.Printf("Question %d of %d  (%s each)\n", session.Index()+1, session.Length(), perQuestion)
			fmt.Println(q.Prompt)
			for _, opt := range q.Options {
				fmt.Println("  " + opt)
			}
			fmt.Print("Answer (A-D): ")

			answered := false
			for !answered {
				select {
				case line, open := <-lines:
					if !open {
						fmt.Println("\nInput closed, ending quiz early.")
						inputClosed = true
						answered = true
						break
					}
					if session.Poll() {
						fmt.Println("⏱ Time's up!")
						answered = true
						break
					}
					if correct, _ := session.Submit(line); correct {
						fmt.Println("✓ Correct!")
					} else {
						fmt.Printf("✗ Not quite. The answer was %s.\n", q.CorrectLabel)
					}
					answered = true
				case <-time.After(250 * time.Millisecond):
					if session.Poll() {
						fmt.Println("\n⏱ Time's up!")
						answered = true
					}
				}
			}
			fmt.Println()
		}

		fmt.Printf("You scored %d / %d\n\n", session.Score(), session.Length())
		for i, entry := range session.Log() {
			mark := "✗"
			switch {
			case entry.Submitted == entry.CorrectLabel:
				mark = "✓"
			case entry.Submitted == quiz.NoAnswer:
				mark = "⏱"
			}
			fmt.Printf("%s %d. %s\n    your answer: %s  correct: %s\n",
				mark, i+1, entry.Question, entry.Submitted, entry.CorrectLabel)
		}

		data := store.QuizEventData{
			Source:              args[0],
			Questions:           session.Length(),
			Correct:             session.Score(),
			DurationSecs:        int(time.Since(started).Seconds()),
			TimePerQuestionSecs: seconds,
		}
		if err := st.EventRepo().AppendQuizResult(cmd.Context(), data); err != nil {
			fmt.Fprintln(os.Stderr, "warning: could not record quiz result:", err)
		}
		return nil
	},
}

func init() {
	quizCmd.Flags().IntP("count", "n", 5, "Number of questions (1-10)")
	quizCmd.Flags().IntP("seconds", "t", 20, "Seconds per question (10-120)")
}
