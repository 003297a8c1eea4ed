package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cocosearch/cocosearch/internal/storage"
)

var clearForceFlag bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the resolved index's chunks, parse results, and caches",
	Long: `clear drops every table belonging to the resolved index (chunks,
parse results, exact and semantic query caches) and removes its
index_metadata entry, so the next 'cocosearch index' run provisions
and registers the name from scratch.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearForceFlag, "force", "f", false, "skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	return executeClear(cmd, ctx, rt.store, rt.resolved.IndexName, clearForceFlag)
}

// executeClear performs the clear operation against an injected store.
// Separated from runClear for testing.
func executeClear(cmd *cobra.Command, ctx context.Context, store *storage.Store, indexName string, force bool) error {
	if !force {
		fmt.Fprintf(cmd.OutOrStdout(), "clear %q? this deletes all chunks and caches (use --force to skip this prompt): ", indexName)
		var reply string
		fmt.Fscanln(cmd.InOrStdin(), &reply)
		if reply != "y" && reply != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
	}

	if err := store.ClearIndex(ctx, indexName); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared %q\n", indexName)
	return nil
}
