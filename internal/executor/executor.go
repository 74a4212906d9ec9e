// Package executor issues parsed requests and turns responses into verdicts.
package executor

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"apivet/internal/contract"
	"apivet/internal/fields"
	"apivet/internal/ir"
	"apivet/internal/rules"
)

const (
	// DefaultTimeout bounds one HTTP round trip.
	DefaultTimeout = 30 * time.Second

	maxBodyRead = 1 << 20 // 1MB
)

// Runner executes requests and evaluates rules. It keeps no per-execution
// state, so one Runner is safe to share across concurrent callers.
type Runner struct {
	secure   *http.Client
	insecure *http.Client
	timeout  time.Duration
	maxDepth int

	contractV *contract.Validator
	parallel  int
	failFast  bool
}

func New() *Runner { return NewWithTimeout(DefaultTimeout) }

// NewWithTimeout builds a Runner with an explicit request timeout, mainly so
// tests can inject a short one.
func NewWithTimeout(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		secure:   &http.Client{Transport: newTransport(false)},
		insecure: &http.Client{Transport: newTransport(true)},
		timeout:  timeout,
		maxDepth: fields.DefaultMaxDepth,
	}
}

func newTransport(insecureTLS bool) *http.Transport {
	tr := &http.Transport{
		MaxIdleConns:        128,
		MaxIdleConnsPerHost: 64,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	if insecureTLS {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return tr
}

func (r *Runner) WithContract(v *contract.Validator) *Runner { r.contractV = v; return r }
func (r *Runner) WithMaxDepth(d int) *Runner {
	if d > 0 {
		r.maxDepth = d
	}
	return r
}
func (r *Runner) WithParallel(n int) *Runner {
	if n < 1 {
		n = 1
	}
	r.parallel = n
	return r
}
func (r *Runner) WithFailFast(b bool) *Runner { r.failFast = b; return r }

// Execute performs the HTTP call described by req and judges the response
// with the supplied rules (the legacy set when none are given). Network
// failures never surface as errors: they come back as a FAIL verdict with a
// single synthesized outcome.
func (r *Runner) Execute(ctx context.Context, req *ir.Request, list []ir.Rule) *ir.Verdict {
	verdict, _ := r.execute(ctx, req, list)
	return verdict
}

// execute additionally returns the raw response for callers that post-process
// it (contract validation); resp is nil when the request failed.
func (r *Runner) execute(ctx context.Context, req *ir.Request, list []ir.Rule) (*ir.Verdict, *ir.Response) {
	verdict := &ir.Verdict{ExecutionID: uuid.NewString()}

	resp, err := r.doRequest(ctx, req)
	if err != nil {
		reason := classifyNetworkError(err)
		verdict.Error = reason
		verdict.Outcomes = []ir.Outcome{{
			RuleID:   "request_execution",
			RuleName: "Request Execution",
			Category: ir.CategoryFunctional,
			Result:   ir.Fail,
			Reason:   reason,
			Expected: "Successful HTTP response",
			Actual:   reason,
		}}
		summarize(verdict)
		return verdict, nil
	}

	verdict.StatusCode = resp.StatusCode
	verdict.ElapsedMs = resp.ElapsedMs
	verdict.FieldPaths = extractPaths(resp, r.maxDepth)

	if len(list) == 0 {
		verdict.Outcomes = rules.EvaluateLegacy(resp)
	} else {
		verdict.Outcomes = rules.EvaluateAll(list, resp)
	}
	summarize(verdict)
	return verdict, resp
}

func (r *Runner) doRequest(ctx context.Context, req *ir.Request) (*ir.Response, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(cctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for _, h := range req.Headers {
		httpReq.Header.Set(h.Name, h.Value)
	}

	client := r.secure
	if !req.VerifyTLS {
		client = r.insecure
	}

	start := time.Now()
	httpResp, err := client.Do(httpReq)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyRead))

	resp := &ir.Response{
		StatusCode: httpResp.StatusCode,
		ElapsedMs:  elapsed,
		Body:       data,
		Headers:    httpResp.Header,
	}
	if len(data) > 0 {
		var decoded any
		if json.Unmarshal(data, &decoded) == nil {
			resp.JSON = decoded
			resp.JSONValid = true
		}
	}
	return resp, nil
}

// summarize fills Overall/Structural/Functional from the outcomes. A
// sub-verdict with no outcomes in its category passes vacuously.
func summarize(v *ir.Verdict) {
	v.Overall, v.Structural, v.Functional = ir.Pass, ir.Pass, ir.Pass
	for _, o := range v.Outcomes {
		if o.Result == ir.Pass {
			continue
		}
		v.Overall = ir.Fail
		switch o.Category {
		case ir.CategoryStructural:
			v.Structural = ir.Fail
		case ir.CategoryFunctional:
			v.Functional = ir.Fail
		}
	}
}

func extractPaths(resp *ir.Response, maxDepth int) []string {
	if !resp.JSONValid {
		return nil
	}
	m := fields.Extract(resp.JSON, maxDepth)
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// classifyNetworkError maps a transport failure to the reason text carried by
// the synthesized FAIL outcome.
func classifyNetworkError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Request timed out"
	}
	var certErr *tls.CertificateVerificationError
	var unknownAuth x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	if errors.As(err, &certErr) || errors.As(err, &unknownAuth) || errors.As(err, &hostErr) {
		return "TLS error: " + err.Error()
	}
	var recErr tls.RecordHeaderError
	if errors.As(err, &recErr) {
		return "TLS error: " + err.Error()
	}
	return "Connection error"
}
