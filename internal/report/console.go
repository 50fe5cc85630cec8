package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/sanket-telunagi/pyautos/internal/runner"
)

var (
	passTag  = color.New(color.FgGreen, color.Bold).SprintFunc()
	failTag  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorTag = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// WriteSummary prints one line per result plus the final counts. Status tags
// are colored when the output is a terminal.
func WriteSummary(w io.Writer, results []runner.Result) {
	var passed, failed, errored int
	for _, res := range results {
		switch res.Status {
		case runner.StatusPass:
			passed++
			fmt.Fprintf(w, "[%s]  %s (%d) in %s\n", passTag("PASS"), res.Name, res.Code, res.Duration.Round(time.Millisecond))
		case runner.StatusFail:
			failed++
			fmt.Fprintf(w, "[%s]  %s (%d) in %s\n", failTag("FAIL"), res.Name, res.Code, res.Duration.Round(time.Millisecond))
		default:
			errored++
			fmt.Fprintf(w, "[%s] %s: %s\n", errorTag("ERROR"), res.Name, res.Body)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d errors\n", passed, failed, errored)
}
