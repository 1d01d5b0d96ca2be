// Package report renders scenario results into machine-readable suite
// reports for CI consumption.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xkilldash9x/uitest-cli/internal/scenario"
)

// Reporter renders a completed run to w.
type Reporter interface {
	Write(w io.Writer, run Run) error
}

// Run aggregates one invocation's results.
type Run struct {
	SuiteName string
	Start     time.Time
	Results   []scenario.Result
}

// Duration is the wall-clock span of the whole run.
func (r Run) Duration() time.Duration {
	var total time.Duration
	for _, res := range r.Results {
		end := res.Start.Add(res.Duration)
		if d := end.Sub(r.Start); d > total {
			total = d
		}
	}
	return total
}

// Counts tallies results by status.
func (r Run) Counts() (passed, failed, errored int) {
	for _, res := range r.Results {
		switch res.Status {
		case scenario.StatusPassed:
			passed++
		case scenario.StatusFailed:
			failed++
		default:
			errored++
		}
	}
	return
}

// New returns the reporter for the given format.
func New(format string) (Reporter, error) {
	switch format {
	case "junit":
		return &JUnitReporter{}, nil
	case "json":
		return &JSONReporter{Pretty: true}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
