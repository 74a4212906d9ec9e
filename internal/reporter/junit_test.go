package reporter_test

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"apivet/internal/reporter"
)

type junitSuite struct {
	XMLName  xml.Name    `xml:"testsuite"`
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Time     string      `xml:"time,attr"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	Classname string `xml:"classname,attr"`
	Name      string `xml:"name,attr"`
	Failure   *struct {
		Message string `xml:"message,attr"`
		Type    string `xml:"type,attr"`
	} `xml:"failure"`
}

func TestWriteJUnit(t *testing.T) {
	var buf bytes.Buffer
	if err := reporter.WriteJUnit(&buf, "sample", sampleRun()); err != nil {
		t.Fatalf("WriteJUnit error: %v", err)
	}

	var suite junitSuite
	if err := xml.Unmarshal(buf.Bytes(), &suite); err != nil {
		t.Fatalf("junit.xml is not valid XML: %v\n%s", err, buf.String())
	}

	// 2 rule outcomes + 1 parse failure
	if suite.Tests != 3 {
		t.Fatalf("tests = %d, want 3", suite.Tests)
	}
	if suite.Failures != 2 {
		t.Fatalf("failures = %d, want 2", suite.Failures)
	}
	if suite.Name != "sample" {
		t.Fatalf("name = %s", suite.Name)
	}

	var parseCase, ruleFail *junitCase
	for i := range suite.Cases {
		c := &suite.Cases[i]
		switch {
		case c.Classname == "broken":
			parseCase = c
		case c.Failure != nil && c.Classname == "get post":
			ruleFail = c
		}
	}
	if parseCase == nil || parseCase.Failure == nil || parseCase.Failure.Type != "ParseError" {
		t.Fatalf("parse failure case: %+v", parseCase)
	}
	if ruleFail == nil || !strings.Contains(ruleFail.Failure.Message, "does not exist") {
		t.Fatalf("rule failure case: %+v", ruleFail)
	}
}
