package rules

import (
	"fmt"
	"strings"

	"apivet/internal/ir"
)

// Legacy rule IDs, in their fixed evaluation order.
const (
	LegacyStatus2xx    = "legacy_status_2xx"
	LegacyBodyPresent  = "legacy_body_present"
	LegacyValidJSON    = "legacy_valid_json"
	LegacyNoErrorField = "legacy_no_error_field"
)

// EvaluateLegacy runs the fixed four-rule fallback used when a check has no
// configured rules: status in 2xx, non-empty body, valid JSON, and no
// top-level error field on 4xx/5xx responses.
func EvaluateLegacy(resp *ir.Response) []ir.Outcome {
	return []ir.Outcome{
		legacyStatus(resp),
		legacyBodyPresent(resp),
		legacyValidJSON(resp),
		legacyNoErrorField(resp),
	}
}

func legacyStatus(resp *ir.Response) ir.Outcome {
	out := ir.Outcome{
		RuleID:   LegacyStatus2xx,
		RuleName: "Status Code Rule",
		Category: ir.CategoryFunctional,
		Expected: "2xx status code",
		Actual:   fmt.Sprintf("%d", resp.StatusCode),
		Result:   ir.Fail,
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		out.Result = ir.Pass
	} else {
		out.Reason = fmt.Sprintf("Expected 2xx status code, got %d", resp.StatusCode)
	}
	return out
}

func legacyBodyPresent(resp *ir.Response) ir.Outcome {
	out := ir.Outcome{
		RuleID:   LegacyBodyPresent,
		RuleName: "Response Exists Rule",
		Category: ir.CategoryStructural,
		Expected: "Non-empty response body",
		Result:   ir.Fail,
	}
	if strings.TrimSpace(string(resp.Body)) == "" {
		out.Actual = "Empty body"
		out.Reason = "Response body is empty"
		return out
	}
	out.Result = ir.Pass
	out.Actual = fmt.Sprintf("%d bytes", len(resp.Body))
	return out
}

func legacyValidJSON(resp *ir.Response) ir.Outcome {
	out := ir.Outcome{
		RuleID:   LegacyValidJSON,
		RuleName: "Valid JSON Rule",
		Category: ir.CategoryStructural,
		Expected: "Valid JSON body",
		Result:   ir.Fail,
	}
	if resp.JSONValid {
		out.Result = ir.Pass
		out.Actual = "Valid JSON"
	} else {
		out.Actual = "Not valid JSON"
		out.Reason = "Response is not valid JSON"
	}
	return out
}

func legacyNoErrorField(resp *ir.Response) ir.Outcome {
	out := ir.Outcome{
		RuleID:   LegacyNoErrorField,
		RuleName: "No Error Field Rule",
		Category: ir.CategoryFunctional,
		Expected: "No top-level error field",
		Actual:   "No error field",
		Result:   ir.Pass,
	}
	if resp.StatusCode < 400 || !resp.JSONValid {
		return out
	}
	obj, ok := resp.JSON.(map[string]any)
	if !ok {
		return out
	}
	if v, present := obj["error"]; present {
		out.Result = ir.Fail
		out.Actual = "error field present"
		out.Reason = fmt.Sprintf("Response contains error: %s", stringify(v))
	} else if v, present := obj["message"]; present {
		out.Result = ir.Fail
		out.Actual = "message field present"
		out.Reason = fmt.Sprintf("Response contains error message: %s", stringify(v))
	}
	return out
}
