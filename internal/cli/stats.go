package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cocosearch/cocosearch/internal/project"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show file, chunk, and parse-health statistics for the resolved index",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if _, err := project.NewRegistry(rt.store).Lookup(ctx, rt.resolved); err != nil {
		return err
	}

	stats, err := rt.store.IndexStats(ctx, rt.resolved.IndexName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", rt.resolved.IndexName)
	fmt.Fprintf(out, "  files:       %d\n", stats.Files)
	fmt.Fprintf(out, "  chunks:      %d\n", stats.Chunks)
	fmt.Fprintf(out, "  parse health: %.1f%%\n", stats.ParseHealthPct)
	fmt.Fprintf(out, "  last updated: %s\n", stats.LastUpdatedAt.Format("2006-01-02 15:04"))
	for lang, n := range stats.ByLanguage {
		fmt.Fprintf(out, "    %-12s %d chunks\n", lang, n)
	}
	if len(stats.ParseFailures) > 0 {
		fmt.Fprintln(out, "  parse failures:")
		for _, f := range stats.ParseFailures {
			fmt.Fprintf(out, "    %-40s %-10s %s\n", f.FilePath, f.Status, f.Error)
		}
	}
	return nil
}
