package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/nandy2uy/Nova-language/ast"
	"github.com/nandy2uy/Nova-language/interp"
	"github.com/nandy2uy/Nova-language/parse"
	"github.com/nandy2uy/Nova-language/vm"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	historyFile = ".nova_history"
	promptMain  = "nova> "
	promptCont  = "....> "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL()
	},
}

// session is the state a REPL carries between entries: one compilation unit
// and one machine that is extended with each entry's code.
type session struct {
	unit *vm.Unit
	m    *interp.Machine
	out  io.Writer
}

func newSession(out io.Writer) *session {
	s := &session{unit: vm.NewUnit(), out: out}
	s.m = interp.NewMachine(&vm.Program{}, interp.WithOutput(out))
	// An empty program halts at once, leaving the machine ready to extend.
	s.m.Run(context.Background())
	return s
}

// eval compiles src after everything entered so far and runs the new code.
// An entry that is a single expression has its value printed.
func (s *session) eval(ctx context.Context, src string) error {
	tree, err := parse.Parse(src)
	if err != nil {
		return err
	}
	if len(tree.Stmts) == 1 && ast.IsExpr(tree.Stmts[0]) {
		tree.Stmts[0] = &ast.Print{Value: tree.Stmts[0]}
	}
	prog, err := s.unit.Add(tree)
	if err != nil {
		return err
	}
	err = s.m.Extend(prog)
	if err != nil {
		return err
	}
	err = s.m.Run(ctx)
	if err != nil {
		s.m.Reset()
		return err
	}
	return nil
}

// incomplete reports whether err means the input stopped too early, so the
// REPL should read another line.
func incomplete(err error) bool {
	var se *parse.SyntaxError
	if !errors.As(err, &se) {
		return false
	}
	return strings.Contains(se.Msg, "end of input") || se.Msg == "unterminated string"
}

func readEntry(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the current entry.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		if _, perr := parse.Parse(src); perr != nil && incomplete(perr) {
			continue
		}
		return src, true
	}
}

func runREPL() error {
	fmt.Println(color.Cyan.Sprintf("nova %s, :help for commands", version))

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}

	s := newSession(os.Stdout)
	for {
		src, ok := readEntry(ln)
		if !ok {
			fmt.Println()
			break
		}
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if strings.HasPrefix(src, ":") {
			if s.command(src) {
				break
			}
			continue
		}
		ctx, cancel := interruptContext()
		err := s.eval(ctx, src)
		cancel()
		if err != nil {
			fmt.Print(color.Red.Sprintf("%s\n", err))
		}
	}

	if f, err := os.Create(histPath); err == nil {
		ln.WriteHistory(f)
		f.Close()
	}
	return nil
}

// command handles a ':' command and reports whether the REPL should exit.
func (s *session) command(line string) bool {
	switch strings.Fields(line)[0] {
	case ":quit", ":q":
		return true
	case ":disasm":
		s.m.Program().DebugPrint(s.out)
	case ":vars":
		fmt.Fprint(s.out, s.m.PrettyPrint())
	case ":reset":
		*s = *newSession(s.out)
		fmt.Fprintln(s.out, color.Yellow.Sprint("session reset"))
	case ":help":
		fmt.Fprintln(s.out, "  :vars    show top-level bindings")
		fmt.Fprintln(s.out, "  :disasm  show the session's compiled code")
		fmt.Fprintln(s.out, "  :reset   forget everything entered so far")
		fmt.Fprintln(s.out, "  :quit    leave")
	default:
		fmt.Fprintln(s.out, color.Red.Sprintf("unknown command %s", line))
	}
	return false
}
