// Package project renders a compiled TypeModel into its two output documents:
// the normalized specification (round-trip form) and a JSON Schema document
// for structured-generation consumers.
package project

import (
	"strconv"

	"github.com/goliatone/go-structspec/internal/model"
	"github.com/goliatone/go-structspec/pkg/spec"
)

// Normalized re-renders the type model in the shape of the original
// specification document. The result is semantically equivalent to the parsed
// input: same fields, dtypes, and constraints, with canonical dtype spellings.
func Normalized(m *model.TypeModel, root string) (map[string]any, error) {
	record, ok := m.Record(root)
	if !ok {
		return nil, spec.NewError(spec.KindUnknownRoot, "", "unknown root type %q", root)
	}

	doc := map[string]any{
		"name":   record.Name,
		"fields": fieldsDocument(record),
	}

	// At the model root every declared custom dtype round-trips. A projected
	// custom root only carries the records it can reach: the original root is
	// unreachable by construction, and emitting it would produce a document
	// whose references cannot re-parse.
	keep := func(string) bool { return true }
	if root != m.Root() {
		reachable := reachableFrom(m, record)
		keep = func(name string) bool {
			_, ok := reachable[name]
			return ok
		}
	}

	var customs []any
	for _, name := range m.Names() {
		if name == root || name == model.BboxTypeName || !keep(name) {
			continue
		}
		custom, _ := m.Record(name)
		customs = append(customs, map[string]any{
			"name":   custom.Name,
			"fields": fieldsDocument(custom),
		})
	}
	if len(customs) > 0 {
		doc["custom_dtypes"] = customs
	}

	return doc, nil
}

func fieldsDocument(record *model.RecordType) []any {
	fields := make([]any, 0, len(record.Fields))
	for _, def := range record.Fields {
		fields = append(fields, map[string]any{
			"name":          def.Name,
			"specification": specificationDocument(def),
		})
	}
	return fields
}

func specificationDocument(def model.FieldDef) map[string]any {
	doc := map[string]any{
		"dim":   dimOf(def),
		"dtype": dtypeName(def.Elem),
	}
	if def.Optional {
		doc["optional"] = true
	}
	if def.Description != "" {
		doc["description"] = def.Description
	}
	if len(def.Enum) > 0 {
		values := make([]any, 0, len(def.Enum))
		for _, value := range def.Enum {
			values = append(values, enumLiteral(value))
		}
		doc["allowed_values"] = values
	}

	c := def.Constraints
	if c.Pattern != "" {
		doc["pattern"] = c.Pattern
	}
	if c.Format != "" {
		doc["format"] = c.Format
	}
	if c.Minimum != nil {
		doc["minimum"] = *c.Minimum
	}
	if c.Maximum != nil {
		doc["maximum"] = *c.Maximum
	}
	if c.ExclusiveMinimum != nil {
		doc["exclusiveMinimum"] = *c.ExclusiveMinimum
	}
	if c.ExclusiveMaximum != nil {
		doc["exclusiveMaximum"] = *c.ExclusiveMaximum
	}
	if c.MultipleOf != nil {
		doc["multipleOf"] = *c.MultipleOf
	}
	if c.MinItems != nil {
		doc["minItems"] = *c.MinItems
	}
	if c.MaxItems != nil {
		doc["maxItems"] = *c.MaxItems
	}

	return doc
}

func dimOf(def model.FieldDef) int {
	if def.Repeated {
		return 1
	}
	return 0
}

// dtypeName maps a resolved element back to its authored dtype spelling. The
// bbox built-in round-trips to the primitive name, not the reserved record
// name.
func dtypeName(elem model.Element) string {
	switch elem.Kind {
	case model.KindString:
		return string(spec.PrimitiveString)
	case model.KindInteger:
		return string(spec.PrimitiveInteger)
	case model.KindNumber:
		return string(spec.PrimitiveNumber)
	case model.KindBoolean:
		return string(spec.PrimitiveBoolean)
	default:
		if elem.Ref == model.BboxTypeName {
			return string(spec.PrimitiveBbox)
		}
		return elem.Ref
	}
}

// enumLiteral renders a coerced allowed value back to its authored string
// form so the document re-parses cleanly.
func enumLiteral(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
