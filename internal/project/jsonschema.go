package project

import (
	"github.com/goliatone/go-structspec/internal/model"
	"github.com/goliatone/go-structspec/pkg/spec"
)

const draft07 = "http://json-schema.org/draft-07/schema#"

// JSONSchema renders the type model as a draft-07 schema document. Custom
// dtypes (and the bbox built-in, when used) are emitted once under
// "definitions" and referenced by name; inline expansion would not terminate
// for cyclic type graphs.
func JSONSchema(m *model.TypeModel, root string) (map[string]any, error) {
	record, ok := m.Record(root)
	if !ok {
		return nil, spec.NewError(spec.KindUnknownRoot, "", "unknown root type %q", root)
	}

	doc := recordSchema(record)
	doc["$schema"] = draft07
	doc["title"] = record.Name

	definitions := make(map[string]any)
	for _, name := range m.Names() {
		if name == root {
			continue
		}
		defined, _ := m.Record(name)
		definitions[name] = recordSchema(defined)
	}
	// A projected root that is itself referenced (self-referential, or a
	// back-reference from another record) must also appear under definitions
	// or its $refs dangle.
	if recordReferenced(m, root) {
		definitions[root] = recordSchema(record)
	}
	if len(definitions) > 0 {
		doc["definitions"] = definitions
	}

	return doc, nil
}

// recordSchema renders one record as a closed object schema. Property order
// in the document follows field declaration order via the required list;
// properties themselves are keyed by name.
func recordSchema(record *model.RecordType) map[string]any {
	properties := make(map[string]any, len(record.Fields))
	var required []string
	for _, def := range record.Fields {
		properties[def.Name] = fieldSchema(def)
		if !def.Optional {
			required = append(required, def.Name)
		}
	}

	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func fieldSchema(def model.FieldDef) map[string]any {
	elem := elementSchema(def)

	if def.Repeated {
		doc := map[string]any{
			"type":  "array",
			"items": elem,
		}
		if def.Constraints.MinItems != nil {
			doc["minItems"] = *def.Constraints.MinItems
		}
		if def.Constraints.MaxItems != nil {
			doc["maxItems"] = *def.Constraints.MaxItems
		}
		if def.Description != "" {
			doc["description"] = def.Description
		}
		return doc
	}

	if def.Description != "" {
		elem["description"] = def.Description
	}
	return elem
}

// elementSchema renders the element type plus its value constraints. For
// repeated fields this becomes the items schema, so enums and numeric bounds
// restrict each element.
func elementSchema(def model.FieldDef) map[string]any {
	if def.Elem.IsRecord() {
		return map[string]any{"$ref": "#/definitions/" + def.Elem.Ref}
	}

	doc := map[string]any{"type": string(def.Elem.Kind)}

	if len(def.Enum) > 0 {
		doc["enum"] = append([]any(nil), def.Enum...)
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

	return doc
}
