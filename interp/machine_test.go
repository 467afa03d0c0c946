package interp

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nandy2uy/Nova-language/parse"
	"github.com/nandy2uy/Nova-language/vm"
	"github.com/stretchr/testify/require"
)

func compileSource(t *testing.T, src string) *vm.Program {
	t.Helper()
	b, err := parse.Parse(src)
	require.NoError(t, err)
	prog, err := vm.Compile(b)
	require.NoError(t, err)
	return prog
}

func runSource(t *testing.T, src string, opts ...Option) (string, *Machine, error) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithOutput(&out)}, opts...)
	m, err := RunProgram(context.Background(), compileSource(t, src), opts...)
	return out.String(), m, err
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"precedence", "print 2 + 3 * 4", "14\n"},
		{"comparison", "print 3 < 5", "true\n"},
		{"if else", `let x = 10 if x > 5 { print "big" } else { print "small" }`, "big\n"},
		{"else taken", `let x = 1 if x > 5 { print "big" } else { print "small" }`, "small\n"},
		{"loop", "let i = 0 while i < 3 { print i let i = i + 1 }", "0\n1\n2\n"},
		{"subtract", "fun sub(a, b) { return a - b } print sub(10, 3)", "7\n"},
		{"factorial", "fun fact(n) { if n < 2 { return 1 } return n * fact(n - 1) } print fact(5)", "120\n"},
		{"argument order", "fun pair(a, b) { print a print b } pair(1, 2)", "1\n2\n"},
		{"concat", `print "nova" + "-" + "lang"`, "nova-lang\n"},
		{"truncating division", "let a = 0 - 7 print a / 2 print 7 / 2", "-3\n3\n"},
		{"equality across kinds", `print 1 == "1" print 1 != true`, "false\ntrue\n"},
		{"string order", `print "abc" < "abd"`, "true\n"},
		{"implicit null", "fun f() { } print f() print f() == f()", "null\ntrue\n"},
		{"null is bound", "fun f() { } let x = f() print x", "null\n"},
		{"falsy", `if "" { print 1 } else { print 2 } if 0 { print 3 } if "x" { print 4 }`, "2\n4\n"},
		{"forward reference", "fun a() { return b() } fun b() { return 5 } print a()", "5\n"},
		{"top level return", "print 1 return 2 print 3", "1\n"},
		{"nested calls", "fun sq(n) { return n * n } fun sum(a, b) { return a + b } print sum(sq(3), sq(4))", "25\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, m, err := runSource(t, tt.src)
			require.NoError(t, err)
			require.Equal(t, tt.want, out)
			require.Equal(t, Halted, m.State())
		})
	}
}

func TestScopeIsolation(t *testing.T) {
	out, m, err := runSource(t, "fun f() { let local = 1 return local } print f() print local")
	require.ErrorIs(t, err, ErrUnboundVariable)
	require.Equal(t, "1\n", out)
	require.Equal(t, Faulted, m.State())

	// Callees do not see the caller's bindings either.
	_, _, err = runSource(t, "let x = 1 fun f() { return x } print f()")
	require.ErrorIs(t, err, ErrUnboundVariable)

	out, _, err = runSource(t, "let n = 100 fun f(n) { let n = n + 1 return n } print f(1) print n")
	require.NoError(t, err)
	require.Equal(t, "2\n100\n", out)
}

func TestFaults(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"undefined variable", "print y", ErrUnboundVariable},
		{"undefined function", "print nope(1)", ErrUnknownFunction},
		{"division by zero", "print 1 / 0", ErrDivisionByZero},
		{"add mismatch", `print 1 + "a"`, ErrTypeMismatch},
		{"sub strings", `print "a" - "b"`, ErrTypeMismatch},
		{"order mismatch", `print "a" < 1`, ErrTypeMismatch},
		{"order bools", "print true < false", ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, m, err := runSource(t, tt.src)
			require.ErrorIs(t, err, tt.want)
			var f *Fault
			require.True(t, errors.As(err, &f))
			require.Equal(t, m.Program().Code[f.IP], f.Op)
			require.Equal(t, Faulted, m.State())

			// Faults are terminal.
			res, again := m.Step()
			require.Equal(t, ErrorStep, res)
			require.Equal(t, err, again)
			require.Equal(t, err, m.Fault())
		})
	}
}

func TestOutputBeforeFaultIsKept(t *testing.T) {
	out, _, err := runSource(t, "print 1 print 1 / 0 print 2")
	require.ErrorIs(t, err, ErrDivisionByZero)
	require.Equal(t, "1\n", out)
}

func TestExpressionStatementsAreStackNeutral(t *testing.T) {
	_, m, err := runSource(t, "let i = 0 while i < 100 { i + 1 let i = i + 1 } 1 2 3")
	require.NoError(t, err)
	require.Empty(t, m.Stack())

	_, m, err = runSource(t, "fun f() { return 1 } f() f() f()")
	require.NoError(t, err)
	require.Empty(t, m.Stack())
}

func TestStepResults(t *testing.T) {
	prog := compileSource(t, "fun id(x) { return x } print id(4)")
	var out bytes.Buffer
	m := NewMachine(prog, WithOutput(&out))
	var results []StepResult
	maxDepth := 0
	for {
		res, err := m.Step()
		require.NoError(t, err)
		results = append(results, res)
		maxDepth = max(maxDepth, m.Depth())
		if res == HaltStep {
			break
		}
	}
	require.Contains(t, results, CallStep)
	require.Contains(t, results, ReturnStep)
	require.Equal(t, 2, maxDepth)
	require.Equal(t, 1, m.Depth())
	require.Equal(t, prog.Len(), m.IP())
	require.Equal(t, "4\n", out.String())

	res, err := m.Step()
	require.NoError(t, err)
	require.Equal(t, HaltStep, res)
}

func TestLimits(t *testing.T) {
	_, m, err := runSource(t, "while true { }", WithMaxSteps(1000))
	require.ErrorIs(t, err, ErrStepLimit)
	require.Equal(t, 1000, m.Steps())

	_, m, err = runSource(t, "fun f(n) { return f(n + 1) } f(0)", WithMaxDepth(50))
	require.ErrorIs(t, err, ErrCallDepth)
	require.Equal(t, 51, m.Depth())

	out, _, err := runSource(t, "fun fact(n) { if n < 2 { return 1 } return n * fact(n - 1) } print fact(10)", WithMaxDepth(10))
	require.NoError(t, err)
	require.Equal(t, "3628800\n", out)
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMachine(compileSource(t, "while true { }"))
	err := m.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, Faulted, m.State())
}

func TestHandBuiltPrograms(t *testing.T) {
	tests := []struct {
		name string
		prog *vm.Program
		want error
	}{
		{"unknown opcode", &vm.Program{Code: []vm.Op{{Code: vm.Opcode(99)}}}, ErrUnknownOpcode},
		{"underflow", &vm.Program{Code: []vm.Op{{Code: vm.POP}}}, ErrStackUnderflow},
		{"push name", &vm.Program{Code: []vm.Op{{Code: vm.PUSH, Arg: vm.NameArg("x")}}}, ErrBadOperand},
		{"jump out of range", &vm.Program{Code: []vm.Op{{Code: vm.JUMP, Arg: vm.TargetArg(5)}}}, ErrBadOperand},
		{"call underflow", &vm.Program{
			Code:      []vm.Op{{Code: vm.CALL, Arg: vm.NameArg("f")}, {Code: vm.RETURN}},
			Functions: vm.FunctionTable{"f": {Start: 1, Params: []string{"a"}}},
		}, ErrStackUnderflow},
		{"function runs off the end", &vm.Program{
			Code:      []vm.Op{{Code: vm.CALL, Arg: vm.NameArg("f")}},
			Functions: vm.FunctionTable{"f": {Start: 1}},
		}, vm.ErrEndOfCode},
		{"bad comparison", &vm.Program{Code: []vm.Op{
			{Code: vm.PUSH, Arg: vm.IntValue(1)},
			{Code: vm.PUSH, Arg: vm.IntValue(2)},
			{Code: vm.COMPARE, Arg: vm.OperatorArg("<=")},
		}}, ErrBadOperand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunProgram(context.Background(), tt.prog, WithOutput(&bytes.Buffer{}))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEmptyProgramHalts(t *testing.T) {
	m, err := RunProgram(context.Background(), &vm.Program{})
	require.NoError(t, err)
	require.Equal(t, Halted, m.State())
	require.Zero(t, m.Steps())
}

func TestExtend(t *testing.T) {
	unit := vm.NewUnit()
	add := func(src string) *vm.Program {
		b, err := parse.Parse(src)
		require.NoError(t, err)
		p, err := unit.Add(b)
		require.NoError(t, err)
		return p
	}
	var out bytes.Buffer
	m := NewMachine(add("let x = 2 fun dbl(n) { return n * 2 }"), WithOutput(&out))
	require.Error(t, m.Extend(m.Program()), "cannot extend a machine that has not halted")
	require.NoError(t, m.Run(context.Background()))

	require.NoError(t, m.Extend(add("print dbl(x)")))
	require.NoError(t, m.Run(context.Background()))
	require.Equal(t, "4\n", out.String())

	require.NoError(t, m.Extend(add("let x = x + 1 print dbl(x)")))
	require.NoError(t, m.Run(context.Background()))
	require.Equal(t, "4\n6\n", out.String())

	other := compileSource(t, "print 1")
	require.Error(t, m.Extend(other))
}

func TestRunID(t *testing.T) {
	m := NewMachine(&vm.Program{}, WithRunID("abc"))
	require.Equal(t, "abc", m.RunID())

	m = NewMachine(&vm.Program{})
	_, err := uuid.Parse(m.RunID())
	require.NoError(t, err)
}

func TestReset(t *testing.T) {
	unit := vm.NewUnit()
	b, err := parse.Parse("let kept = 7 fun boom(n) { return n / 0 } boom(1)")
	require.NoError(t, err)
	p1, err := unit.Add(b)
	require.NoError(t, err)

	var out bytes.Buffer
	m := NewMachine(p1, WithOutput(&out))
	require.ErrorIs(t, m.Run(context.Background()), ErrDivisionByZero)
	require.Equal(t, 2, m.Depth())

	m.Reset()
	require.Equal(t, Halted, m.State())
	require.NoError(t, m.Fault())
	require.Equal(t, 1, m.Depth())
	require.Empty(t, m.Stack())

	b, err = parse.Parse("print kept")
	require.NoError(t, err)
	p2, err := unit.Add(b)
	require.NoError(t, err)
	require.NoError(t, m.Extend(p2))
	require.NoError(t, m.Run(context.Background()))
	require.Equal(t, "7\n", out.String())
}
