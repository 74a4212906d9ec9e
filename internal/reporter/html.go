package reporter

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"strconv"
	"strings"

	"apivet/internal/executor"
	"apivet/internal/ir"
)

// WriteHTML renders a self-contained report: one card per check, one table
// row per rule outcome with its expected/actual strings.
func WriteHTML(w io.Writer, runName string, res *executor.RunResult) error {
	var sb strings.Builder

	sb.WriteString(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
	sb.WriteString(`<meta name="viewport" content="width=device-width,initial-scale=1">`)
	sb.WriteString(`<title>apivet Report — ` + html.EscapeString(runName) + `</title>`)
	sb.WriteString(`<style>
:root { --ok:#0a0; --bad:#b00; --muted:#666; --chip:#eee; --line:#e5e5e5; }
body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;margin:24px;line-height:1.45}
h1{margin:0 0 12px}
h2{margin:0 0 8px;font-size:1.05rem}
.summary{display:flex;gap:12px;align-items:center;margin:12px 0 18px}
.pass{color:var(--ok)} .fail{color:var(--bad)}
.badge{display:inline-block;padding:2px 8px;border-radius:999px;background:var(--chip);font-size:.85rem}
.card{border:1px solid var(--line);border-radius:12px;padding:16px;margin:12px 0}
table{border-collapse:collapse;width:100%;margin-top:8px}
th,td{border-bottom:1px solid var(--line);padding:6px 8px;text-align:left;font-size:.9rem;vertical-align:top}
th{color:var(--muted);font-weight:600}
.muted{color:var(--muted)}
.small{font-size:.85rem}
hr{border:0;border-top:1px solid var(--line);margin:20px 0}
pre{background:#f8f8f8;padding:12px;border-radius:8px;overflow:auto;margin:8px 0 0;white-space:pre-wrap}
</style></head><body>`)

	// Header
	sb.WriteString(`<h1>` + html.EscapeString(runName) + `</h1>`)
	sb.WriteString(`<div class="summary">`)
	sb.WriteString(`<div>Status: <strong class="` + statusClass(res.Passed) + `">` + tern(res.Passed, "PASS", "FAIL") + `</strong></div>`)
	sb.WriteString(chip("Duration: " + strconv.FormatInt(res.DurationMs, 10) + " ms"))
	sb.WriteString(chip("Checks: " + strconv.Itoa(len(res.Checks))))
	sb.WriteString(`</div><hr>`)

	// Checks
	for _, c := range res.Checks {
		sb.WriteString(`<div class="card">`)
		sb.WriteString(`<h2>` + html.EscapeString(c.Name) + ` — ` + badgeStatus(c.Passed) + `</h2>`)

		if c.Verdict == nil {
			sb.WriteString(`<pre>` + html.EscapeString(c.Error) + `</pre></div>`)
			continue
		}

		v := c.Verdict
		sb.WriteString(`<div class="small muted">` + html.EscapeString(c.Method+" "+c.URL) + `</div>`)
		sb.WriteString(`<div class="summary small">`)
		sb.WriteString(chip("Status: " + strconv.Itoa(v.StatusCode)))
		sb.WriteString(chip("Elapsed: " + strconv.FormatInt(v.ElapsedMs, 10) + " ms"))
		sb.WriteString(chip("Structural: " + v.Structural))
		sb.WriteString(chip("Functional: " + v.Functional))
		if c.ContractRoute != "" {
			sb.WriteString(chip("Contract: " + c.ContractRoute + " " + tern(c.ContractError == "", "ok", "violated")))
		}
		sb.WriteString(`</div>`)

		if v.Error != "" {
			sb.WriteString(`<pre>` + html.EscapeString(v.Error) + `</pre>`)
		}

		sb.WriteString(`<table><tr><th>Rule</th><th>Field</th><th>Result</th><th>Expected</th><th>Actual</th><th>Reason</th></tr>`)
		for _, o := range v.Outcomes {
			sb.WriteString(`<tr>`)
			sb.WriteString(`<td>` + html.EscapeString(o.RuleName) + `</td>`)
			sb.WriteString(`<td>` + html.EscapeString(o.Field) + `</td>`)
			sb.WriteString(`<td>` + badgeStatus(o.Result == ir.Pass) + `</td>`)
			sb.WriteString(`<td>` + html.EscapeString(o.Expected) + `</td>`)
			sb.WriteString(`<td>` + html.EscapeString(o.Actual) + `</td>`)
			sb.WriteString(`<td>` + html.EscapeString(o.Reason) + `</td>`)
			sb.WriteString(`</tr>`)
		}
		sb.WriteString(`</table>`)

		if c.ContractError != "" {
			sb.WriteString(`<div class="small muted" style="margin-top:10px;">Contract</div>`)
			sb.WriteString(`<pre>` + html.EscapeString(c.ContractError) + `</pre>`)
		}
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</body></html>`)
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteHTMLFromJSONPath re-renders from the on-disk results.json so the HTML
// is guaranteed to match it.
func WriteHTMLFromJSONPath(w io.Writer, runName, resultsJSONPath string) error {
	data, err := os.ReadFile(resultsJSONPath)
	if err != nil {
		return fmt.Errorf("read results.json: %w", err)
	}
	var res executor.RunResult
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("decode results.json: %w", err)
	}
	return WriteHTML(w, runName, &res)
}

func statusClass(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

func badgeStatus(ok bool) string {
	if ok {
		return `<span class="badge pass">PASS</span>`
	}
	return `<span class="badge fail">FAIL</span>`
}

func chip(text string) string {
	return `<span class="badge">` + html.EscapeString(text) + `</span>`
}

func tern[T ~string](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
