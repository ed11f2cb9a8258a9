package cmd

import (
	"github.com/spf13/cobra"
	"github.com/wctc-net-database/gradedash/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the gradedash MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents read the dashboard, student
histories and feedback, and credit stretch goals, through standard tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, cfg, storeManager, loader)
	},
}
