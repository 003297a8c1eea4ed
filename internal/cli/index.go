package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cocosearch/cocosearch/internal/ingest"
	"github.com/cocosearch/cocosearch/internal/project"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index (or re-index) a project",
	Long: `index walks the project root, chunks and embeds every surviving
file, and writes the result into the resolved index, creating it on
first run and incrementally updating it thereafter.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.store.Provision(ctx, rt.resolved.IndexName, rt.cfg.Embedding.Dimensions); err != nil {
		return err
	}
	if err := project.NewRegistry(rt.store).Register(ctx, rt.resolved); err != nil {
		return err
	}

	pipeline := ingest.New(rt.store, rt.registry, rt.extractor, rt.embedder, rt.resolved.IndexName, rt.resolved.CanonicalPath, 0)

	onProgress := func(p ingest.Progress) {
		if !verboseFlag {
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d/%d files, %d chunks, %d embeddings\n",
			p.FilesIndexed, p.FilesDiscovered, p.ChunksWritten, p.EmbeddingsComputed)
	}

	summary, err := pipeline.Run(ctx, rt.cfg.Indexing, onProgress)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: +%d added, %d updated, %d removed, %d parse errors (%s)\n",
		rt.resolved.IndexName, summary.FilesAdded, summary.FilesUpdated, summary.FilesRemoved,
		summary.FilesWithParseErrors, summary.Duration.Round(1e6))
	return nil
}
