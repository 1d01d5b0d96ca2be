// internal/report/json.go
package report

import (
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONReporter renders results as a JSON document for downstream tooling.
type JSONReporter struct {
	Pretty bool
}

type jsonRun struct {
	Suite    string       `json:"suite"`
	Start    time.Time    `json:"start"`
	Duration string       `json:"duration"`
	Passed   int          `json:"passed"`
	Failed   int          `json:"failed"`
	Errored  int          `json:"errored"`
	Results  []jsonResult `json:"results"`
}

type jsonResult struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	Duration   string `json:"duration"`
	SessionID  string `json:"session_id,omitempty"`
	Screenshot string `json:"screenshot,omitempty"`
}

// Write renders the run as JSON.
func (j *JSONReporter) Write(w io.Writer, run Run) error {
	passed, failed, errored := run.Counts()
	out := jsonRun{
		Suite:    run.SuiteName,
		Start:    run.Start.UTC(),
		Duration: run.Duration().String(),
		Passed:   passed,
		Failed:   failed,
		Errored:  errored,
		Results:  make([]jsonResult, 0, len(run.Results)),
	}
	for _, res := range run.Results {
		jr := jsonResult{
			Name:       res.Name,
			Status:     string(res.Status),
			Duration:   res.Duration.String(),
			SessionID:  res.SessionID,
			Screenshot: res.Screenshot,
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		out.Results = append(out.Results, jr)
	}
	enc := json.NewEncoder(w)
	if j.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
