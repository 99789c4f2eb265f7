// Package validation checks candidate result values against a compiled type
// model. It is the machine-checkable side of the compiler output: a decoded
// JSON value either conforms to the model or yields a list of located issues.
package validation

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"time"

	"github.com/goliatone/go-structspec/pkg/model"
	"github.com/goliatone/go-structspec/pkg/spec"
)

// Issue represents a single conformance failure with its location inside the
// instance value, e.g. "items[2].label".
type Issue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Result captures the outcome of validating one instance.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	uuidPattern  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// Validate checks a decoded instance value against the named record of the
// model. Unlike specification parsing, instance validation accumulates every
// issue it finds; a caller rendering feedback wants the full list.
func Validate(m *model.TypeModel, root string, value any) (Result, error) {
	record, ok := m.Record(root)
	if !ok {
		return Result{}, spec.NewError(spec.KindUnknownRoot, "", "unknown root type %q", root)
	}

	checker := &checker{model: m}
	checker.record(record, value, "")
	return Result{Valid: len(checker.issues) == 0, Issues: checker.issues}, nil
}

type checker struct {
	model    *model.TypeModel
	patterns map[string]*regexp.Regexp
	issues   []Issue
}

// pattern returns the compiled matcher for expr, compiling at most once per
// validation pass. Patterns were verified during specification parsing, so
// compilation cannot fail here.
func (c *checker) pattern(expr string) *regexp.Regexp {
	if matcher, ok := c.patterns[expr]; ok {
		return matcher
	}
	matcher := regexp.MustCompile(expr)
	if c.patterns == nil {
		c.patterns = make(map[string]*regexp.Regexp)
	}
	c.patterns[expr] = matcher
	return matcher
}

func (c *checker) report(path, format string, args ...any) {
	c.issues = append(c.issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) record(record *model.RecordType, value any, path string) {
	payload, ok := value.(map[string]any)
	if !ok {
		c.report(path, "expected an object for %s", record.Name)
		return
	}

	known := make(map[string]struct{}, len(record.Fields))
	for _, def := range record.Fields {
		known[def.Name] = struct{}{}
		fieldPath := joinPath(path, def.Name)
		raw, present := payload[def.Name]
		if !present || raw == nil {
			if !def.Optional {
				c.report(fieldPath, "required field is missing")
			}
			continue
		}
		c.field(def, raw, fieldPath)
	}

	// Closed records: the generated schemas forbid additional properties.
	for key := range payload {
		if _, ok := known[key]; !ok {
			c.report(joinPath(path, key), "unexpected field")
		}
	}
}

func (c *checker) field(def model.FieldDef, value any, path string) {
	if !def.Repeated {
		c.element(def, value, path)
		return
	}

	items, ok := value.([]any)
	if !ok {
		c.report(path, "expected an array")
		return
	}
	if def.Constraints.MinItems != nil && len(items) < *def.Constraints.MinItems {
		c.report(path, "expected at least %d items, got %d", *def.Constraints.MinItems, len(items))
	}
	if def.Constraints.MaxItems != nil && len(items) > *def.Constraints.MaxItems {
		c.report(path, "expected at most %d items, got %d", *def.Constraints.MaxItems, len(items))
	}
	for idx, item := range items {
		c.element(def, item, fmt.Sprintf("%s[%d]", path, idx))
	}
}

func (c *checker) element(def model.FieldDef, value any, path string) {
	if def.Elem.IsRecord() {
		record, ok := c.model.Record(def.Elem.Ref)
		if !ok {
			c.report(path, "model references unknown record %q", def.Elem.Ref)
			return
		}
		c.record(record, value, path)
		return
	}

	switch def.Elem.Kind {
	case model.KindString:
		text, ok := value.(string)
		if !ok {
			c.report(path, "expected a string")
			return
		}
		c.stringConstraints(def, text, path)
		c.enumMembership(def, text, path)
	case model.KindBoolean:
		flag, ok := value.(bool)
		if !ok {
			c.report(path, "expected a boolean")
			return
		}
		c.enumMembership(def, flag, path)
	case model.KindInteger:
		number, ok := asNumber(value)
		if !ok || number != math.Trunc(number) {
			c.report(path, "expected an integer")
			return
		}
		c.numericConstraints(def, number, path)
		c.enumMembership(def, number, path)
	case model.KindNumber:
		number, ok := asNumber(value)
		if !ok {
			c.report(path, "expected a number")
			return
		}
		c.numericConstraints(def, number, path)
		c.enumMembership(def, number, path)
	default:
		c.report(path, "unsupported element kind %q", def.Elem.Kind)
	}
}

func (c *checker) stringConstraints(def model.FieldDef, text, path string) {
	constraints := def.Constraints
	if constraints.Pattern != "" {
		if !c.pattern(constraints.Pattern).MatchString(text) {
			c.report(path, "value does not match pattern %q", constraints.Pattern)
		}
	}
	if constraints.Format == "" {
		return
	}
	switch constraints.Format {
	case "email":
		if !emailPattern.MatchString(text) {
			c.report(path, "value is not a valid email address")
		}
	case "date-time":
		if _, err := time.Parse(time.RFC3339, text); err != nil {
			c.report(path, "value is not an RFC 3339 date-time")
		}
	case "uri":
		if _, err := url.ParseRequestURI(text); err != nil {
			c.report(path, "value is not a valid URI")
		}
	case "uuid":
		if !uuidPattern.MatchString(text) {
			c.report(path, "value is not a valid UUID")
		}
	}
}

func (c *checker) numericConstraints(def model.FieldDef, number float64, path string) {
	constraints := def.Constraints
	if constraints.Minimum != nil && number < *constraints.Minimum {
		c.report(path, "value %v is below minimum %v", number, *constraints.Minimum)
	}
	if constraints.Maximum != nil && number > *constraints.Maximum {
		c.report(path, "value %v is above maximum %v", number, *constraints.Maximum)
	}
	if constraints.ExclusiveMinimum != nil && number <= *constraints.ExclusiveMinimum {
		c.report(path, "value %v is not above exclusive minimum %v", number, *constraints.ExclusiveMinimum)
	}
	if constraints.ExclusiveMaximum != nil && number >= *constraints.ExclusiveMaximum {
		c.report(path, "value %v is not below exclusive maximum %v", number, *constraints.ExclusiveMaximum)
	}
	if constraints.MultipleOf != nil {
		quotient := number / *constraints.MultipleOf
		if math.Abs(quotient-math.Round(quotient)) > 1e-9 {
			c.report(path, "value %v is not a multiple of %v", number, *constraints.MultipleOf)
		}
	}
}

func (c *checker) enumMembership(def model.FieldDef, value any, path string) {
	if len(def.Enum) == 0 {
		return
	}
	for _, allowed := range def.Enum {
		if enumEqual(allowed, value) {
			return
		}
	}
	c.report(path, "value %v is not one of the allowed values", value)
}

// enumEqual compares a coerced enum literal with an instance value. Numeric
// literals compare by value so 2 matches 2.0.
func enumEqual(allowed, value any) bool {
	if allowedNumber, ok := asNumber(allowed); ok {
		if valueNumber, ok := asNumber(value); ok {
			return allowedNumber == valueNumber
		}
		return false
	}
	return allowed == value
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
