package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/taskgate/internal/cli"
	"github.com/aretw0/taskgate/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "taskgate",
	Short: "taskgate guards a task list behind a gauntlet of dialogs",
	Long: `taskgate reads tasks and only adds them to the list once the submitter has
clicked through every confirmation, challenge and loading screen of the flow.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, cli.ErrRejected):
		fmt.Fprintln(os.Stderr, err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}

// loadConfig resolves flags, environment and config file for cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(cmd.Flags())
}

func init() {
	// Persistent flags (available to all commands)
	f := rootCmd.PersistentFlags()
	f.String("surface", config.SurfaceAuto, "Dialog surface: auto, tui, text or json")
	f.Int("min-length", 0, "Minimum task length (0 uses the flow file or the default of 20)")
	f.String("flow", "", "Flow file describing the steps (defaults to the built-in flow)")
	f.Bool("debug", false, "Log flow events to stderr")
	f.String("log-format", "text", "Debug log format: text or json")
	f.String("metrics-addr", "", "Serve metrics, status and events on this address")
	f.String("redis-addr", "", "Share the attempt lock through this Redis server")
}
