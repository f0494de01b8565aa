package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/taskgate"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of taskgate",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "taskgate version %s\n", strings.TrimSpace(taskgate.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
