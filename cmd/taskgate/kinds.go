package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/taskgate/internal/cli"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the step kinds a flow file can use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cli.Kinds(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
