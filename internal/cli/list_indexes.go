package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cocosearch/cocosearch/internal/project"
	"github.com/cocosearch/cocosearch/internal/storage"
)

var listIndexesCmd = &cobra.Command{
	Use:   "list-indexes",
	Short: "List every registered index",
	RunE:  runListIndexes,
}

func init() {
	rootCmd.AddCommand(listIndexesCmd)
}

func runListIndexes(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := storage.Open(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	indexes, err := store.ListIndexes(ctx)
	if err != nil {
		return err
	}
	if len(indexes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no indexes registered")
		return nil
	}
	for _, idx := range indexes {
		stale := ""
		if project.IsStale(idx.LastUpdatedAt) {
			stale = "  (stale)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-30s %-8d %s  updated %s%s\n",
			idx.IndexName, idx.Dimensions, idx.CanonicalPath, idx.LastUpdatedAt.Format("2006-01-02 15:04"), stale)
	}
	return nil
}
