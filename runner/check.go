package runner

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nandy2uy/Nova-language/cas"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of checking one spec.
type Result struct {
	Spec     *Spec
	Output   []string
	Err      error // compile error or machine fault, if any
	Failures []string
	RunID    string
	Steps    int
	Duration time.Duration
}

func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Check compiles and runs spec and compares what happened with its
// expectations. Problems with the program itself are reported in the Result;
// the error is only for ctx being done.
func Check(ctx context.Context, spec *Spec, cache *cas.ProgramCache) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	res := &Result{Spec: spec}
	defer func() {
		res.Duration = time.Since(start)
	}()

	exec, err := spec.BuildExecutor(cache)
	if err != nil {
		res.Err = err
		res.Failures = expectFault(spec.Expect, err)
		return res, nil
	}
	var out bytes.Buffer
	m, err := exec.Run(ctx, &out)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	res.Err = err
	res.Output = splitLines(out.String())
	res.RunID = m.RunID()
	res.Steps = m.Steps()
	res.Failures = expectFault(spec.Expect, err)
	if spec.Expect.CheckOutput() && !slices.Equal(res.Output, spec.Expect.Output) {
		res.Failures = append(res.Failures, fmt.Sprintf("output mismatch:\n  want %q\n  got  %q", spec.Expect.Output, res.Output))
	}
	log.Debug().
		Str("spec", spec.Name()).
		Str("run", res.RunID).
		Int("steps", res.Steps).
		Bool("passed", res.Passed()).
		Msg("checked")
	return res, nil
}

func expectFault(e Expectation, err error) []string {
	switch {
	case e.Fault == "" && err != nil:
		return []string{fmt.Sprintf("unexpected error: %s", err)}
	case e.Fault != "" && err == nil:
		return []string{fmt.Sprintf("expected a fault containing %q, program halted", e.Fault)}
	case e.Fault != "" && !strings.Contains(err.Error(), e.Fault):
		return []string{fmt.Sprintf("expected a fault containing %q, got: %s", e.Fault, err)}
	}
	return nil
}

func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// CheckAll checks specs concurrently, at most jobs at a time (no limit when
// jobs <= 0). Results are in the order of specs.
func CheckAll(ctx context.Context, specs []*Spec, cache *cas.ProgramCache, jobs int) ([]*Result, error) {
	results := make([]*Result, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, s := range specs {
		g.Go(func() error {
			r, err := Check(gctx, s, cache)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
