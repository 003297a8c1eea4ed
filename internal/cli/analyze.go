package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/cocosearch/cocosearch/internal/project"
	"github.com/cocosearch/cocosearch/internal/search"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze-query <query>",
	Short: "Run a query through the retrieval pipeline and print per-stage diagnostics",
	Long: `analyze-query runs the same pipeline as search but bypasses both
query caches and reports the identifier detection, hybrid-mode decision,
candidate counts, and RRF match-type breakdown as JSON, per spec.md §4.10
"analyze_query".`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if _, err := project.NewRegistry(rt.store).Lookup(ctx, rt.resolved); err != nil {
		return err
	}

	engine := search.NewEngine(rt.store, rt.embedder, rt.extractor)
	diag, err := engine.Analyze(ctx, rt.resolved.IndexName, args[0], search.Options{})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(diag)
}
