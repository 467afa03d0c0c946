package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/nandy2uy/Nova-language/interp"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace FILE",
	Short: "Run a program one instruction at a time, printing the machine before each step",
	Args:  cobra.ExactArgs(1),
	RunE:  traceCommand,
}

func init() {
	traceCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Fault after this many instructions (0 means no limit)")
	traceCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Fault when this many calls are active (0 means no limit)")
}

func traceCommand(cmd *cobra.Command, args []string) error {
	spec, err := loadSpec(args[0])
	if err != nil {
		return err
	}
	applyLimits(spec)
	exec, err := spec.BuildExecutor(nil)
	if err != nil {
		return err
	}
	m := interp.NewMachine(exec.Program, append(exec.Options(), interp.WithOutput(os.Stdout))...)
	for {
		fmt.Println(color.Gray.Sprint("*******"))
		fmt.Print(m.PrettyPrint())
		res, err := m.Step()
		if err != nil {
			return err
		}
		if res == interp.HaltStep {
			fmt.Println(color.Green.Sprint("Finished"))
			return nil
		}
		fmt.Println(color.Gray.Sprint(res))
	}
}
