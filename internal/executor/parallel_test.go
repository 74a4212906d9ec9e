package executor_test

import (
	"context"
	"fmt"
	"testing"

	"apivet/internal/executor"
	"apivet/internal/ir"
)

func TestRunChecks_Parallel(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	file := &ir.CheckFile{Name: "parallel run"}
	for i := 0; i < 8; i++ {
		file.Checks = append(file.Checks, ir.Check{
			Name: fmt.Sprintf("check-%d", i),
			Curl: "curl " + srv.URL + "/posts/1",
			Rules: []ir.Rule{
				{ID: "s", Type: ir.RuleStatusCode, Config: ir.RuleConfig{ExpectedStatus: 200}},
			},
		})
	}

	res, err := executor.New().WithParallel(4).RunChecks(context.Background(), file)
	if err != nil {
		t.Fatalf("RunChecks error: %v", err)
	}
	if !res.Passed {
		t.Fatalf("run should pass: %+v", res)
	}
	if len(res.Checks) != 8 {
		t.Fatalf("checks = %d, want 8", len(res.Checks))
	}
	// Results land at their original index regardless of completion order.
	for i, c := range res.Checks {
		if want := fmt.Sprintf("check-%d", i); c.Name != want {
			t.Fatalf("checks[%d].Name = %s, want %s", i, c.Name, want)
		}
		if c.Verdict == nil || c.Verdict.Overall != ir.Pass {
			t.Fatalf("checks[%d] did not pass: %+v", i, c)
		}
	}
}

func TestRunChecks_FailFastStops(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	file := &ir.CheckFile{
		Name: "fail fast",
		Checks: []ir.Check{
			{Name: "fails", Curl: "curl " + srv.URL + "/error"},
			{Name: "never runs", Curl: "curl " + srv.URL + "/posts/1"},
		},
	}

	res, err := executor.New().WithFailFast(true).WithParallel(4).RunChecks(context.Background(), file)
	if err != nil {
		t.Fatalf("RunChecks error: %v", err)
	}
	if res.Passed {
		t.Fatal("run should fail")
	}
	if len(res.Checks) != 1 {
		t.Fatalf("fail-fast should stop after the first failure, got %d checks", len(res.Checks))
	}
}

func TestRunChecks_BadCurlBecomesCheckError(t *testing.T) {
	file := &ir.CheckFile{
		Name:   "bad curl",
		Checks: []ir.Check{{Name: "broken", Curl: "curl -X POST"}},
	}

	res, err := executor.New().RunChecks(context.Background(), file)
	if err != nil {
		t.Fatalf("RunChecks error: %v", err)
	}
	if res.Passed {
		t.Fatal("run should fail")
	}
	c := res.Checks[0]
	if c.Verdict != nil || c.Error == "" {
		t.Fatalf("parse failure should carry an error and no verdict: %+v", c)
	}
}
