package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/taskgate/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [FILE]",
	Short: "Export the flow as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the steps, the length check and the commit.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path := cfg.FlowFile
		if len(args) > 0 {
			path = args[0]
		}
		return cli.Graph(cmd.OutOrStdout(), path, cfg.MinLength)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
