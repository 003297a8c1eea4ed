// Package cli wires cobra subcommands onto the core internal packages,
// the thin I/O layer spec.md places everything except this wiring out of
// scope for.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	indexNameFlag     string
	projectFlag       string
	projectFromCwdFlag bool
	verboseFlag       bool
)

// rootCmd is the base "cocosearch" command.
var rootCmd = &cobra.Command{
	Use:   "cocosearch",
	Short: "Hybrid semantic and keyword code search",
	Long: `cocosearch indexes a source tree into Postgres+pgvector and serves
hybrid (vector + keyword) search over it, with tree-sitter-aware
definition extraction and context expansion.`,
}

// Execute runs the root command; called once from cmd/cocosearch/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.PersistentFlags().StringVar(&projectFlag, "path", "", "project root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&indexNameFlag, "index-name", "", "override the resolved index name")
	rootCmd.PersistentFlags().BoolVar(&projectFromCwdFlag, "project-from-cwd", false, "walk upward from the current directory for the nearest .git root")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")

	viper.BindPFlag("path", rootCmd.PersistentFlags().Lookup("path"))
	viper.BindPFlag("index-name", rootCmd.PersistentFlags().Lookup("index-name"))
}

// initViper sets viper's COCOSEARCH_ env prefix and AutomaticEnv. No
// command reads values back from viper: the COCOSEARCH_* variables
// spec.md §6 names (COCOSEARCH_DATABASE_URL, COCOSEARCH_OLLAMA_URL,
// COCOSEARCH_PROJECT_PATH) are read with os.Getenv by storage.Open,
// embed.New and openRuntime, and the typed, substitution-aware
// cocosearch.yaml merge goes through config.Loader, per SPEC_FULL.md §A.
func initViper() {
	viper.SetEnvPrefix("cocosearch")
	viper.AutomaticEnv()
}
