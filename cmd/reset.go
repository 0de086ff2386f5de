package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/studiz/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all saved data (history, bookmarks, events)",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Print("This deletes your question history, bookmarks and quiz results. Continue? [y/N] ")
			var answer string
			_, _ = fmt.Scanln(&answer)
			if answer != "y" && answer != "Y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		dataDir, err := store.DataDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		records, err := store.OpenRecords(dataDir)
		if err != nil {
			return fmt.Errorf("open records: %w", err)
		}

		targets := []string{
			records.Path(store.KindHistory),
			records.Path(store.KindBookmarks),
			dbPath,
		}
		for _, p := range targets {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}

		fmt.Println("All saved data deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
}
