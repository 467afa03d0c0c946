package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/nandy2uy/Nova-language/cas"
	"github.com/nandy2uy/Nova-language/runner"
	"github.com/spf13/cobra"
)

var (
	jobs      int
	cacheSize int
	quiet     bool
)

var checkCmd = &cobra.Command{
	Use:   "check SPEC|DIR...",
	Short: "Run .toml specs and compare their output and faults with what they expect",
	Args:  cobra.MinimumNArgs(1),
	RunE:  checkCommand,
}

func init() {
	checkCmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Number of specs to run at once (0 means no limit)")
	checkCmd.Flags().IntVar(&cacheSize, "cache-size", 256, "Compiled programs kept in memory")
	checkCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the summary line")
}

func checkCommand(cmd *cobra.Command, args []string) error {
	specs, err := runner.LoadSpecs(args...)
	if err != nil {
		return err
	}
	cache := cas.NewProgramCache(cas.NewLRUCache(cas.NewMemoryCAS(), cacheSize))

	fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("Checking %d specs...", len(specs)))
	ctx, cancel := interruptContext()
	defer cancel()
	results, err := runner.CheckAll(ctx, specs, cache, jobs)
	if err != nil {
		return err
	}

	var rep runner.Reporter = &runner.ColorReporter{Writer: os.Stdout}
	if quiet {
		rep = &runner.SilentReporter{}
	}
	failed := runner.Report(rep, results)
	if quiet {
		fmt.Print(runner.FormatSummary(len(results), failed))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d specs failed", failed, len(results))
	}
	return nil
}
