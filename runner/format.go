package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/gookit/color"
)

// FormatResult renders one result as a status line followed by its failures.
func FormatResult(r *Result) string {
	var b strings.Builder
	if r.Passed() {
		b.WriteString(color.Green.Sprint("PASS "))
	} else {
		b.WriteString(color.Red.Sprint("FAIL "))
	}
	b.WriteString(color.Bold.Sprint(r.Spec.Name()))
	b.WriteString(color.Gray.Sprintf(" (%d steps, %s)", r.Steps, r.Duration.Round(time.Microsecond)))
	b.WriteString("\n")
	for _, f := range r.Failures {
		for _, line := range strings.Split(f, "\n") {
			b.WriteString("    ")
			b.WriteString(color.Yellow.Sprint(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func FormatSummary(total, failed int) string {
	if failed == 0 {
		return color.Green.Sprintf("ok: %d passed\n", total)
	}
	return color.Red.Sprintf("FAILED: %d of %d\n", failed, total)
}

// FormatError renders an error for the terminal.
func FormatError(err error) string {
	return fmt.Sprintf("%s %s\n", color.Red.Sprint("error:"), err)
}
