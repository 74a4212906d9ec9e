package rules

import (
	"errors"
	"fmt"

	"apivet/internal/ir"
)

var ErrInvalidRule = errors.New("invalid rule")

// ValidateRule checks a rule descriptor before a run. Runtime evaluation is
// forgiving (bad config just FAILs the one rule), but configuration loaded
// from a check file is rejected up front so typos surface immediately.
func ValidateRule(r ir.Rule) error {
	info, known := InfoFor(r.Type)
	if r.Type == "" {
		return fmt.Errorf("%w: rule type is required", ErrInvalidRule)
	}
	if !known {
		return fmt.Errorf("%w: unknown rule type %q", ErrInvalidRule, r.Type)
	}
	if info.RequiresField && r.Field == "" {
		return fmt.Errorf("%w: field is required for %s", ErrInvalidRule, r.Type)
	}

	switch r.Type {
	case ir.RuleFieldType:
		if t := r.Config.ExpectedType; t != "" && !validTypes[t] {
			return fmt.Errorf("%w: expectedType %q is not one of string/number/boolean/array/object", ErrInvalidRule, t)
		}
	case ir.RuleCustomExpr:
		if op := r.Config.Operator; op != "" && !validOperators[op] {
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidRule, op)
		}
	case ir.RuleSuccessFlag:
		if v := r.Config.ExpectedValue; v != nil {
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("%w: expectedValue for %s must be a boolean", ErrInvalidRule, r.Type)
			}
		}
	case ir.RuleStatusCode:
		if s := r.Config.ExpectedStatus; s < 0 {
			return fmt.Errorf("%w: expectedStatus must be a positive status code", ErrInvalidRule)
		}
	case ir.RuleResponseTime:
		if r.Config.MaxMs < 0 {
			return fmt.Errorf("%w: maxMs must not be negative", ErrInvalidRule)
		}
	}
	return nil
}
