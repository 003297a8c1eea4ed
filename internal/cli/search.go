package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cocosearch/cocosearch/internal/project"
	"github.com/cocosearch/cocosearch/internal/search"
	"github.com/cocosearch/cocosearch/internal/storage"
)

var (
	searchLimit         int
	searchMinScore      float64
	searchLanguage      string
	searchSymbolTypes   string
	searchSymbolName    string
	searchUseHybrid     string
	searchSmartContext  bool
	searchContextBefore int
	searchContextAfter  int
	searchNoCache       bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search an indexed project",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "minimum fused score")
	searchCmd.Flags().StringVar(&searchLanguage, "language", "", "filter by language id")
	searchCmd.Flags().StringVar(&searchSymbolTypes, "symbol-type", "", "comma-separated symbol types to filter on")
	searchCmd.Flags().StringVar(&searchSymbolName, "symbol-name", "", "glob pattern to filter symbol names")
	searchCmd.Flags().StringVar(&searchUseHybrid, "use-hybrid", "auto", `"true", "false", or "auto" (detect identifier-like queries)`)
	searchCmd.Flags().BoolVar(&searchSmartContext, "smart-context", false, "expand context to the enclosing definition when possible")
	searchCmd.Flags().IntVar(&searchContextBefore, "context-before", 0, "fixed lines of context before a match")
	searchCmd.Flags().IntVar(&searchContextAfter, "context-after", 0, "fixed lines of context after a match")
	searchCmd.Flags().BoolVar(&searchNoCache, "no-cache", false, "bypass the exact and semantic query caches")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	registry := project.NewRegistry(rt.store)
	if _, err := registry.Lookup(ctx, rt.resolved); err != nil {
		return err
	}

	var symbolTypes []string
	if searchSymbolTypes != "" {
		symbolTypes = strings.Split(searchSymbolTypes, ",")
	}

	var useHybrid *bool
	switch searchUseHybrid {
	case "true":
		v := true
		useHybrid = &v
	case "false":
		v := false
		useHybrid = &v
	}

	engine := search.NewEngine(rt.store, rt.embedder, rt.extractor)
	results, err := engine.Search(ctx, rt.resolved.IndexName, args[0], search.Options{
		Limit:    searchLimit,
		MinScore: searchMinScore,
		Filters: storage.SearchFilters{
			Language:    searchLanguage,
			SymbolTypes: symbolTypes,
			SymbolName:  searchSymbolName,
		},
		UseHybrid:     useHybrid,
		SmartContext:  searchSmartContext,
		ContextBefore: searchContextBefore,
		ContextAfter:  searchContextAfter,
		NoCache:       searchNoCache,
	})
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no results")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%d-%d  score=%.4f  %s\n", r.File, r.StartLine, r.EndLine, r.Score, r.MatchType)
		if r.SymbolName != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", r.SymbolType, r.SymbolName)
		}
		fmt.Fprintln(cmd.OutOrStdout(), indent(r.Content))
	}
	return nil
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
