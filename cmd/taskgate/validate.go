package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/taskgate/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a flow file",
	Long:  `Decodes the flow file and checks every step against the parameters its kind accepts.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Validate(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
