package main

import (
	"os"

	"github.com/nandy2uy/Nova-language/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	maxSteps int
	maxDepth int
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a .nova or .star program, or the program named by a .toml spec",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommand,
}

func init() {
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Fault after this many instructions (0 means no limit)")
	runCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Fault when this many calls are active (0 means no limit)")
}

// applyLimits lets flags override a spec's limits.
func applyLimits(spec *runner.Spec) {
	if maxSteps > 0 {
		spec.Run.MaxSteps = maxSteps
	}
	if maxDepth > 0 {
		spec.Run.MaxDepth = maxDepth
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(args[0])
	if err != nil {
		return err
	}
	applyLimits(spec)
	exec, err := spec.BuildExecutor(nil)
	if err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()
	m, err := exec.Run(ctx, os.Stdout)
	log.Debug().Str("run", m.RunID()).Int("steps", m.Steps()).Msg("finished")
	if err != nil {
		return err
	}
	if spec.Expect.Fault != "" || spec.Expect.CheckOutput() {
		log.Info().Str("spec", spec.Name()).Msg("expectations are only checked by `nova check`")
	}
	return nil
}
