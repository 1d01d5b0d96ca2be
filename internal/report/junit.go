// internal/report/junit.go
package report

import (
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/xkilldash9x/uitest-cli/internal/scenario"
)

// JUnitReporter renders results as a JUnit XML testsuite, the lingua franca
// of CI result ingestion. Assertion failures become <failure> elements and
// infrastructure errors become <error> elements.
type JUnitReporter struct{}

// Write renders the run as a single <testsuite> document.
func (j *JUnitReporter) Write(w io.Writer, run Run) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	_, failed, errored := run.Counts()

	suite := doc.CreateElement("testsuite")
	suite.CreateAttr("name", run.SuiteName)
	suite.CreateAttr("tests", fmt.Sprintf("%d", len(run.Results)))
	suite.CreateAttr("failures", fmt.Sprintf("%d", failed))
	suite.CreateAttr("errors", fmt.Sprintf("%d", errored))
	suite.CreateAttr("time", fmt.Sprintf("%.3f", run.Duration().Seconds()))
	suite.CreateAttr("timestamp", run.Start.UTC().Format("2006-01-02T15:04:05"))

	for _, res := range run.Results {
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("name", res.Name)
		tc.CreateAttr("classname", run.SuiteName)
		tc.CreateAttr("time", fmt.Sprintf("%.3f", res.Duration.Seconds()))

		switch res.Status {
		case scenario.StatusPassed:
		case scenario.StatusFailed:
			f := tc.CreateElement("failure")
			f.CreateAttr("message", errMessage(res))
			f.CreateAttr("type", "AssertionFailure")
			f.SetText(caseDetail(res))
		default:
			e := tc.CreateElement("error")
			e.CreateAttr("message", errMessage(res))
			e.CreateAttr("type", "Error")
			e.SetText(caseDetail(res))
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func errMessage(res scenario.Result) string {
	if res.Err == nil {
		return ""
	}
	return res.Err.Error()
}

// caseDetail adds the artifact path so the CI view links straight to the
// screenshot.
func caseDetail(res scenario.Result) string {
	detail := errMessage(res)
	if res.Screenshot != "" {
		detail += "\nscreenshot: " + res.Screenshot
	}
	return detail
}
