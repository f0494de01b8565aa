package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/taskgate/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Read tasks interactively and run each through the flow",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.Run(cli.Options{Config: cfg})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	// 'run' is the default when no command is provided.
	rootCmd.RunE = runCmd.RunE
}
