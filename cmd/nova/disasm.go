package main

import (
	"os"

	"github.com/nandy2uy/Nova-language/runner"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm FILE",
	Short: "Print the compiled instructions and function table of a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := loadSpec(args[0])
		if err != nil {
			return err
		}
		p, err := runner.CompileFile(spec.Run.File, nil)
		if err != nil {
			return err
		}
		p.DebugPrint(os.Stdout)
		return nil
	},
}
