package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/nandy2uy/Nova-language/runner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "nova",
	Short: "Compile and run Nova programs",
	Long:  "nova compiles Nova (and a subset of Starlark) to bytecode and runs it on a stack machine.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'\n", logLevel)
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set log level (trace, debug, info, warn, error)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(disasmCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(replCmd)
}

// loadSpec treats .toml files as run specs and anything else as source.
func loadSpec(path string) (*runner.Spec, error) {
	if filepath.Ext(path) == ".toml" {
		return runner.LoadSpecFromFile(path)
	}
	return runner.SpecForSource(path), nil
}

// interruptContext is cancelled on Ctrl-C so long runs stop cleanly.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, runner.FormatError(err))
		os.Exit(1)
	}
}
