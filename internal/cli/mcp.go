package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command. The MCP/JSON-RPC transport itself is
// out of scope here (spec.md §1 lists it among the thin I/O wrappers this
// core is built to sit behind); this stub documents the entry point every
// other subcommand's resolve-then-act shape is designed to support.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server (not implemented by this module)",
	Long: `mcp is the entry point an MCP/JSON-RPC transport would bind to,
translating "Roots" capability and tool calls into the same
project.Resolve / search.Engine calls the index and search subcommands
use. That transport is out of scope here; this command only documents
where it plugs in.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	return fmt.Errorf("mcp: JSON-RPC transport is not implemented; use `cocosearch search` and `cocosearch index` directly")
}
