package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradestats/config"
	"github.com/rustyeddy/tradestats/logging"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// RootConfig holds the persistent flags shared by every subcommand.
type RootConfig struct {
	ConfigPath string
	LogLevel   string
	LogPretty  bool
}

// loadConfig reads the config file when one was given, or the defaults.
func (rc *RootConfig) loadConfig() (*config.Config, error) {
	if rc.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(rc.ConfigPath)
}

// logger builds the run logger. Flags set on the command line win over the
// config file.
func (rc *RootConfig) logger(cmd *cobra.Command, cfg *config.Config, w io.Writer) (zerolog.Logger, error) {
	level, pretty := cfg.Log.Level, cfg.Log.Pretty
	if cmd.Flags().Changed("log-level") {
		level = rc.LogLevel
	}
	if cmd.Flags().Changed("log-pretty") {
		pretty = rc.LogPretty
	}
	return logging.New(w, level, pretty)
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "tradestats",
		Short:         "Trade log statistics and charts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&rc.LogPretty, "log-pretty", false, "Human readable log output")

	cmd.AddCommand(
		newAnalyzeCmd(rc),
		newConfigCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tradestats (%s)\n", version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
