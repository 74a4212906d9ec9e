// Package rules evaluates typed validation rules against an executed
// response. Evaluation never fails hard: bad configuration, missing fields
// and non-numeric comparisons all come back as FAIL outcomes so one broken
// rule cannot take down a run.
package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"apivet/internal/fields"
	"apivet/internal/ir"
)

// Defaults applied when a rule's config leaves a knob unset.
const (
	DefaultExpectedStatus = 200
	DefaultMaxMs          = 2000
	DefaultExpectedType   = "string"
)

// Evaluate runs one rule against the response and returns its outcome.
// Field lookups resolve against the decoded JSON body; when the body is not
// valid JSON every field simply resolves as not found.
func Evaluate(rule ir.Rule, resp *ir.Response) ir.Outcome {
	info, known := InfoFor(rule.Type)
	out := ir.Outcome{
		RuleID:   rule.ID,
		RuleName: info.Name,
		Category: info.Category,
		Field:    rule.Field,
		Result:   ir.Fail,
	}
	if !known {
		out.RuleName = rule.Type
		out.Category = ir.CategoryFunctional
		out.Expected = "Valid rule"
		out.Actual = "Unknown rule type"
		out.Reason = fmt.Sprintf("Unknown rule type: %s", rule.Type)
		return out
	}

	switch rule.Type {
	case ir.RuleStatusCode:
		evalStatusCode(rule, resp, &out)
	case ir.RuleResponseTime:
		evalResponseTime(rule, resp, &out)
	case ir.RuleFieldExists:
		evalFieldExists(rule, resp, &out)
	case ir.RuleFieldNotNull:
		evalFieldNotNull(rule, resp, &out)
	case ir.RuleFieldType:
		evalFieldType(rule, resp, &out)
	case ir.RuleSuccessFlag:
		evalSuccessFlag(rule, resp, &out)
	case ir.RuleCustomExpr:
		evalCustomExpr(rule, resp, &out)
	}
	return out
}

// EvaluateAll runs every enabled rule in the order given. Disabled rules are
// excluded entirely and produce no outcome.
func EvaluateAll(list []ir.Rule, resp *ir.Response) []ir.Outcome {
	outcomes := make([]ir.Outcome, 0, len(list))
	for _, r := range list {
		if !r.IsEnabled() {
			continue
		}
		outcomes = append(outcomes, Evaluate(r, resp))
	}
	return outcomes
}

func lookup(resp *ir.Response, path string) (any, bool) {
	if !resp.JSONValid {
		return nil, false
	}
	return fields.Lookup(resp.JSON, path)
}

func evalStatusCode(rule ir.Rule, resp *ir.Response, out *ir.Outcome) {
	want := rule.Config.ExpectedStatus
	if want == 0 {
		want = DefaultExpectedStatus
	}
	out.Expected = strconv.Itoa(want)
	out.Actual = strconv.Itoa(resp.StatusCode)
	if resp.StatusCode == want {
		out.Result = ir.Pass
	} else {
		out.Reason = fmt.Sprintf("Expected status %d, got %d", want, resp.StatusCode)
	}
}

func evalResponseTime(rule ir.Rule, resp *ir.Response, out *ir.Outcome) {
	maxMs := rule.Config.MaxMs
	if maxMs == 0 {
		maxMs = DefaultMaxMs
	}
	out.Expected = fmt.Sprintf("<= %dms", maxMs)
	out.Actual = fmt.Sprintf("%dms", resp.ElapsedMs)
	if resp.ElapsedMs <= maxMs {
		out.Result = ir.Pass
	} else {
		out.Reason = fmt.Sprintf("Response time %dms exceeds %dms", resp.ElapsedMs, maxMs)
	}
}

func evalFieldExists(rule ir.Rule, resp *ir.Response, out *ir.Outcome) {
	out.Expected = fmt.Sprintf("'%s' exists", rule.Field)
	value, found := lookup(resp, rule.Field)
	if !found {
		out.Actual = "Not found"
		out.Reason = fmt.Sprintf("Field '%s' does not exist", rule.Field)
		return
	}
	out.Result = ir.Pass
	switch v := value.(type) {
	case nil:
		out.Actual = "Found (null)"
	case string:
		out.Actual = fmt.Sprintf("Found: %q", truncate(v, 50))
	case map[string]any:
		out.Actual = fmt.Sprintf("Found: object (%d items)", len(v))
	case []any:
		out.Actual = fmt.Sprintf("Found: array (%d items)", len(v))
	default:
		out.Actual = "Found: " + stringify(value)
	}
}

func evalFieldNotNull(rule ir.Rule, resp *ir.Response, out *ir.Outcome) {
	out.Expected = "Not null/empty"
	value, found := lookup(resp, rule.Field)
	switch {
	case !found:
		out.Actual = "Field not found"
		out.Reason = fmt.Sprintf("Field '%s' does not exist", rule.Field)
	case value == nil:
		out.Actual = "null"
		out.Reason = fmt.Sprintf("Field '%s' is null", rule.Field)
	case isEmptyString(value):
		out.Actual = "empty string"
		out.Reason = fmt.Sprintf("Field '%s' is empty", rule.Field)
	case isEmptyContainer(value):
		out.Actual = "empty " + fields.TypeName(value)
		out.Reason = fmt.Sprintf("Field '%s' is empty", rule.Field)
	default:
		out.Result = ir.Pass
		if s, ok := value.(string); ok {
			out.Actual = fmt.Sprintf("%q", truncate(s, 50))
		} else {
			out.Actual = fields.TypeName(value) + " with value"
		}
	}
}

func evalFieldType(rule ir.Rule, resp *ir.Response, out *ir.Outcome) {
	want := rule.Config.ExpectedType
	if want == "" {
		want = DefaultExpectedType
	}
	out.Expected = want
	value, found := lookup(resp, rule.Field)
	if !found {
		out.Actual = "Field not found"
		out.Reason = fmt.Sprintf("Field '%s' does not exist", rule.Field)
		return
	}
	got := fields.TypeName(value)
	out.Actual = got
	if got == want {
		out.Result = ir.Pass
	} else {
		out.Reason = fmt.Sprintf("Expected %s, got %s", want, got)
	}
}

func evalSuccessFlag(rule ir.Rule, resp *ir.Response, out *ir.Outcome) {
	want := true
	if b, ok := rule.Config.ExpectedValue.(bool); ok {
		want = b
	}
	out.Expected = strconv.FormatBool(want)
	value, found := lookup(resp, rule.Field)
	if !found {
		out.Actual = "field not found"
		out.Reason = fmt.Sprintf("Field '%s' not found", rule.Field)
		return
	}
	out.Actual = strings.ToLower(stringify(value))
	if b, ok := value.(bool); ok && b == want {
		out.Result = ir.Pass
	} else {
		out.Reason = fmt.Sprintf("Expected %t, got %s", want, out.Actual)
	}
}

func evalCustomExpr(rule ir.Rule, resp *ir.Response, out *ir.Outcome) {
	op := rule.Config.Operator
	if op == "" {
		op = ir.OpEquals
	}
	want := ""
	if rule.Config.ExpectedValue != nil {
		want = stripQuotes(stringify(rule.Config.ExpectedValue))
	}
	out.Expected = fmt.Sprintf("%s %q", op, want)

	value, found := lookup(resp, rule.Field)
	if !found {
		out.Actual = "Field not found"
		out.Reason = fmt.Sprintf("Field '%s' does not exist", rule.Field)
		return
	}
	got := stringify(value)
	out.Actual = truncate(got, 100)

	passed := false
	switch op {
	case ir.OpEquals:
		passed = got == want
	case ir.OpNotEquals:
		passed = got != want
	case ir.OpContains:
		passed = strings.Contains(got, want)
	case ir.OpGreaterThan, ir.OpLessThan:
		gf, errG := toFloat(value)
		wf, errW := strconv.ParseFloat(want, 64)
		if errG != nil || errW != nil {
			out.Reason = "Cannot compare non-numeric values"
			return
		}
		if op == ir.OpGreaterThan {
			passed = gf > wf
		} else {
			passed = gf < wf
		}
	case ir.OpRegex:
		re, err := regexp.Compile(want)
		if err != nil {
			out.Reason = fmt.Sprintf("Invalid regex: %v", err)
			return
		}
		passed = re.MatchString(got)
	default:
		out.Reason = fmt.Sprintf("Unknown operator: %s", op)
		return
	}

	if passed {
		out.Result = ir.Pass
	} else {
		out.Reason = fmt.Sprintf("Value '%s' does not match %s '%s'", truncate(got, 50), op, want)
	}
}

// ---- value helpers ----

// stringify renders a decoded JSON scalar the way the rule phrasing expects:
// null, true/false, untrimmed strings, numbers without a trailing ".0".
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(x, 64)
	case bool:
		return 0, fmt.Errorf("boolean is not numeric")
	default:
		return 0, fmt.Errorf("%T is not numeric", v)
	}
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func isEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func isEmptyContainer(v any) bool {
	switch x := v.(type) {
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}
