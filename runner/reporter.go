package runner

import (
	"fmt"
	"io"
)

// Reporter receives progress and results from the CLI.
type Reporter interface {
	Printf(format string, args ...any)
}

// SilentReporter does not output anything.
type SilentReporter struct{}

func (r *SilentReporter) Printf(format string, args ...any) {}

// ColorReporter writes colorized text to a writer (typically stderr).
type ColorReporter struct {
	Writer io.Writer
}

func (r *ColorReporter) Printf(format string, args ...any) {
	fmt.Fprintf(r.Writer, format, args...)
}

// Report writes every result and a summary, returning how many failed.
func Report(rep Reporter, results []*Result) int {
	failed := 0
	for _, r := range results {
		if !r.Passed() {
			failed++
		}
		rep.Printf("%s", FormatResult(r))
	}
	rep.Printf("%s", FormatSummary(len(results), failed))
	return failed
}
