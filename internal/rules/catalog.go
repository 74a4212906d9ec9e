package rules

import "apivet/internal/ir"

// Info describes one rule type for discovery by outer layers (CLI help,
// editors). The catalog is static: the seven kinds are a closed set.
type Info struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Example       string `json:"example"`
	RequiresField bool   `json:"requiresField"`
	Category      string `json:"category"`
}

var catalog = []Info{
	{
		Type:        ir.RuleStatusCode,
		Name:        "Status Code (e.g., 200, 404, 500)",
		Description: "Verify HTTP status code equals expected value",
		Example:     "Check if API returns 200 OK",
		Category:    ir.CategoryFunctional,
	},
	{
		Type:        ir.RuleResponseTime,
		Name:        "Response Time (e.g., < 2000ms)",
		Description: "Verify API response time is within acceptable threshold",
		Example:     "Ensure response completes within 2 seconds",
		Category:    ir.CategoryPerformance,
	},
	{
		Type:          ir.RuleFieldExists,
		Name:          "Field Exists (e.g., data.id exists)",
		Description:   "Verify that a specific field exists in the response",
		Example:       "Check if 'data.user.email' field is present",
		RequiresField: true,
		Category:      ir.CategoryStructural,
	},
	{
		Type:          ir.RuleFieldNotNull,
		Name:          "Field Not Null (e.g., data.id != null)",
		Description:   "Check that a field has a value (not null/empty)",
		Example:       "Ensure 'data.token' is not empty",
		RequiresField: true,
		Category:      ir.CategoryStructural,
	},
	{
		Type:          ir.RuleFieldType,
		Name:          "Field Type (e.g., data.count is number)",
		Description:   "Validate the data type of a field value",
		Example:       "Verify 'data.items' is an array",
		RequiresField: true,
		Category:      ir.CategoryStructural,
	},
	{
		Type:          ir.RuleSuccessFlag,
		Name:          "Boolean Check (e.g., success == true)",
		Description:   "Check if a boolean field matches expected true/false",
		Example:       "Verify 'data.isActive' equals true",
		RequiresField: true,
		Category:      ir.CategoryFunctional,
	},
	{
		Type:          ir.RuleCustomExpr,
		Name:          "Custom Compare (e.g., data.status == 'active')",
		Description:   "Compare field value using operators: equals, contains, greater_than, etc.",
		Example:       "Check if 'data.role' contains 'admin'",
		RequiresField: true,
		Category:      ir.CategoryFunctional,
	},
}

// Catalog returns the rule-type metadata in its fixed order.
func Catalog() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// InfoFor looks a type up in the catalog.
func InfoFor(ruleType string) (Info, bool) {
	for _, in := range catalog {
		if in.Type == ruleType {
			return in, true
		}
	}
	return Info{}, false
}

var validTypes = map[string]bool{
	"string": true, "number": true, "boolean": true, "array": true, "object": true,
}

var validOperators = map[string]bool{
	ir.OpEquals: true, ir.OpNotEquals: true, ir.OpContains: true,
	ir.OpGreaterThan: true, ir.OpLessThan: true, ir.OpRegex: true,
}
