package reporter

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"apivet/internal/executor"
	"apivet/internal/ir"
)

// -------- JSON --------

func WriteJSON(w io.Writer, res *executor.RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// -------- JUnit XML --------

// Minimal JUnit schema: testsuite -> testcase (+failure)
type junitTestsuite struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Testcase []junitTestcase `xml:"testcase"`
}

type junitTestcase struct {
	Classname string        `xml:"classname,attr"`
	Name      string        `xml:"name,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

// WriteJUnit renders one testcase per rule outcome, grouped by check name. A
// check whose curl command failed to parse becomes a single failed testcase.
func WriteJUnit(w io.Writer, runName string, res *executor.RunResult) error {
	var total, failures int
	var cases []junitTestcase

	for _, c := range res.Checks {
		if c.Verdict == nil {
			total++
			failures++
			cases = append(cases, junitTestcase{
				Classname: c.Name,
				Name:      "parse",
				Time:      "0.000",
				Failure: &junitFailure{
					Message: c.Error,
					Type:    "ParseError",
					Text:    c.Error,
				},
			})
			continue
		}
		stepTime := fmt.Sprintf("%.3f", float64(c.Verdict.ElapsedMs)/1000.0)
		for _, o := range c.Verdict.Outcomes {
			total++
			tc := junitTestcase{
				Classname: c.Name,
				Name:      o.RuleName,
				Time:      stepTime,
			}
			if o.Result != ir.Pass {
				failures++
				msg := o.Reason
				if msg == "" {
					msg = "assertion failed"
				}
				tc.Failure = &junitFailure{
					Message: msg,
					Type:    "AssertionError",
					Text:    fmt.Sprintf("expected: %s\nactual: %s", o.Expected, o.Actual),
				}
			}
			cases = append(cases, tc)
		}
	}

	ts := junitTestsuite{
		Name:     runName,
		Tests:    total,
		Failures: failures,
		Time:     fmt.Sprintf("%.3f", float64(res.DurationMs)/1000.0),
		Testcase: cases,
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(ts)
}
