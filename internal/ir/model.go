package ir

import "strings"

// Rule types (string constants for portability)
const (
	RuleStatusCode   = "status_code"
	RuleResponseTime = "response_time"
	RuleFieldExists  = "field_exists"
	RuleFieldNotNull = "field_not_null"
	RuleFieldType    = "field_type"
	RuleSuccessFlag  = "success_flag"
	RuleCustomExpr   = "custom_expression"
)

// Rule categories used for sub-verdicts.
const (
	CategoryStructural  = "structural"
	CategoryFunctional  = "functional"
	CategoryPerformance = "performance"
)

// Rule results.
const (
	Pass = "PASS"
	Fail = "FAIL"
)

// Custom expression operators.
const (
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpContains    = "contains"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
	OpRegex       = "regex"
)

// Header is a single request header. Headers are kept as an ordered slice so
// the request goes on the wire in the order the command listed them.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Request is the structured form of a parsed cURL command.
type Request struct {
	Method    string   `json:"method" yaml:"method"`
	URL       string   `json:"url" yaml:"url"`
	Headers   []Header `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      []byte   `json:"body,omitempty" yaml:"body,omitempty"`
	VerifyTLS bool     `json:"verifyTls" yaml:"verifyTls"`
}

// SetHeader sets a header by name. The last occurrence of a duplicate name
// wins: an existing header (matched case-insensitively) is overwritten in
// place with the new name casing and value.
func (r *Request) SetHeader(name, value string) {
	for i := range r.Headers {
		if strings.EqualFold(r.Headers[i].Name, name) {
			r.Headers[i] = Header{Name: name, Value: value}
			return
		}
	}
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
}

// HasHeader reports whether a header with the given name is present
// (case-insensitive).
func (r *Request) HasHeader(name string) bool {
	for i := range r.Headers {
		if strings.EqualFold(r.Headers[i].Name, name) {
			return true
		}
	}
	return false
}

// Response is one executed HTTP exchange as seen by the rule evaluator.
type Response struct {
	StatusCode int                 `json:"statusCode"`
	ElapsedMs  int64               `json:"elapsedMs"`
	Body       []byte              `json:"-"`
	Headers    map[string][]string `json:"headers,omitempty"`

	// JSON holds the decoded body when it is syntactically valid JSON;
	// JSONValid marks the distinction between "null body" and "not JSON".
	JSON      any  `json:"-"`
	JSONValid bool `json:"jsonValid"`
}

// RuleConfig carries the type-specific configuration payload of a rule.
// Only the fields relevant to the rule's type are consulted.
type RuleConfig struct {
	ExpectedStatus int    `json:"expectedStatus,omitempty" yaml:"expectedStatus,omitempty"`
	MaxMs          int64  `json:"maxMs,omitempty" yaml:"maxMs,omitempty"`
	ExpectedType   string `json:"expectedType,omitempty" yaml:"expectedType,omitempty"`
	Operator       string `json:"operator,omitempty" yaml:"operator,omitempty"`
	ExpectedValue  any    `json:"expectedValue,omitempty" yaml:"expectedValue,omitempty"`
}

// Rule is a typed assertion evaluated against one executed response.
type Rule struct {
	ID      string     `json:"id" yaml:"id"`
	Type    string     `json:"type" yaml:"type"`
	Field   string     `json:"field,omitempty" yaml:"field,omitempty"`
	Enabled *bool      `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Config  RuleConfig `json:"config,omitempty" yaml:"config,omitempty"`
}

// IsEnabled treats an unset Enabled flag as enabled.
func (r Rule) IsEnabled() bool { return r.Enabled == nil || *r.Enabled }

// Outcome is the result of evaluating a single rule.
type Outcome struct {
	RuleID   string `json:"ruleId"`
	RuleName string `json:"ruleName"`
	Category string `json:"category"`
	Field    string `json:"field,omitempty"`
	Result   string `json:"result"`
	Reason   string `json:"reason,omitempty"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// Verdict aggregates all rule outcomes for one execution.
type Verdict struct {
	ExecutionID string    `json:"executionId"`
	Overall     string    `json:"overall"`
	Structural  string    `json:"structural"`
	Functional  string    `json:"functional"`
	Outcomes    []Outcome `json:"outcomes"`

	StatusCode int    `json:"statusCode"`
	ElapsedMs  int64  `json:"elapsedMs"`
	Error      string `json:"error,omitempty"` // network failure text

	// FieldPaths lists the dotted paths extracted from the decoded body,
	// for field discovery by outer layers.
	FieldPaths []string `json:"fieldPaths,omitempty"`
}

// CheckFile is a named collection of checks loaded from YAML.
type CheckFile struct {
	Name    string  `json:"name" yaml:"name"`
	OpenAPI string  `json:"openapi,omitempty" yaml:"openapi,omitempty"`
	Checks  []Check `json:"checks" yaml:"checks"`
}

// Check pairs one cURL command with the rules to judge its response by.
// An empty rule list means the legacy rule set applies.
type Check struct {
	Name  string `json:"name" yaml:"name"`
	Curl  string `json:"curl" yaml:"curl"`
	Rules []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}
