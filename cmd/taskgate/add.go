package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/taskgate/internal/cli"
)

var addCmd = &cobra.Command{
	Use:   "add TEXT...",
	Short: "Run a single task through the flow",
	Long: `Runs one attempt for TEXT and exits. The exit status is 0 when the task was
added, 2 when the flow rejected it and 130 when the dialogs were abandoned.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.Add(cli.Options{Config: cfg}, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
