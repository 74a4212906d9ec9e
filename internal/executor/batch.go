package executor

import (
	"context"
	"errors"
	"time"

	"apivet/internal/curl"
	"apivet/internal/ir"
)

// RunResult aggregates every check of one check-file run.
type RunResult struct {
	Name       string        `json:"name"`
	Passed     bool          `json:"passed"`
	Checks     []CheckResult `json:"checks"`
	DurationMs int64         `json:"durationMs"`
}

// CheckResult is one check's command, verdict and optional contract result.
type CheckResult struct {
	Name    string      `json:"name"`
	Method  string      `json:"method,omitempty"`
	URL     string      `json:"url,omitempty"`
	Passed  bool        `json:"passed"`
	Error   string      `json:"error,omitempty"` // parse failure; no verdict in that case
	Verdict *ir.Verdict `json:"verdict,omitempty"`

	ContractRoute string `json:"contractRoute,omitempty"`
	ContractError string `json:"contractError,omitempty"`
}

// RunChecks executes every check in the file, optionally in parallel.
// Fail-fast forces sequential execution and stops after the first failing
// check. Each check gets its own request and rule list; nothing is shared.
func (r *Runner) RunChecks(ctx context.Context, file *ir.CheckFile) (*RunResult, error) {
	if file == nil {
		return nil, errors.New("nil check file")
	}

	start := time.Now()
	res := &RunResult{Name: file.Name, Passed: true, Checks: make([]CheckResult, len(file.Checks))}

	parallel := r.parallel
	if r.failFast || parallel < 1 {
		parallel = 1
	}

	if parallel == 1 {
		for i, c := range file.Checks {
			cr := r.runCheck(ctx, c)
			if !cr.Passed {
				res.Passed = false
			}
			res.Checks[i] = cr
			if r.failFast && !cr.Passed {
				res.Checks = res.Checks[:i+1]
				break
			}
		}
		res.DurationMs = time.Since(start).Milliseconds()
		return res, nil
	}

	type job struct {
		idx   int
		check ir.Check
	}
	type result struct {
		idx int
		cr  CheckResult
	}

	jobs := make(chan job)
	results := make(chan result)

	for w := 0; w < parallel; w++ {
		go func() {
			for j := range jobs {
				results <- result{idx: j.idx, cr: r.runCheck(ctx, j.check)}
			}
		}()
	}
	go func() {
		for i, c := range file.Checks {
			jobs <- job{idx: i, check: c}
		}
		close(jobs)
	}()

	for collected := 0; collected < len(file.Checks); collected++ {
		rx := <-results
		if !rx.cr.Passed {
			res.Passed = false
		}
		res.Checks[rx.idx] = rx.cr
	}

	res.DurationMs = time.Since(start).Milliseconds()
	return res, nil
}

func (r *Runner) runCheck(ctx context.Context, c ir.Check) CheckResult {
	cr := CheckResult{Name: c.Name}

	req, err := curl.Parse(c.Curl)
	if err != nil {
		cr.Error = err.Error()
		return cr
	}
	cr.Method = req.Method
	cr.URL = req.URL

	verdict, resp := r.execute(ctx, req, c.Rules)
	cr.Verdict = verdict
	cr.Passed = verdict.Overall == ir.Pass

	// Contract validation is advisory: it is reported per check but does
	// not alter the rule verdict.
	if r.contractV != nil && resp != nil {
		route, cerr := r.contractV.ValidateResponse(ctx, req.Method, req.URL, resp)
		cr.ContractRoute = route
		if cerr != nil {
			cr.ContractError = cerr.Error()
		}
	}

	return cr
}
