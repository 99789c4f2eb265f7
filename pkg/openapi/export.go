// Package openapi exports compiled type models as OpenAPI component schemas
// so they can be embedded in API documents.
package openapi

import (
	"errors"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-structspec/pkg/model"
)

const componentRefPrefix = "#/components/schemas/"

// Schemas renders every record of the model as an OpenAPI schema keyed by
// record name, suitable for placing under components.schemas. Record
// references become component refs, which keeps cyclic models finite.
func Schemas(m *model.TypeModel) (openapi3.Schemas, error) {
	if m == nil {
		return nil, errors.New("openapi: type model is nil")
	}

	schemas := make(openapi3.Schemas, m.Len())
	for _, name := range m.Names() {
		record, _ := m.Record(name)
		schemas[name] = openapi3.NewSchemaRef("", recordSchema(record))
	}
	return schemas, nil
}

// RootRef returns a reference to the model's root component schema.
func RootRef(m *model.TypeModel) *openapi3.SchemaRef {
	if m == nil {
		return nil
	}
	return openapi3.NewSchemaRef(componentRefPrefix+m.Root(), nil)
}

func recordSchema(record *model.RecordType) *openapi3.Schema {
	properties := make(openapi3.Schemas, len(record.Fields))
	var required []string
	for _, def := range record.Fields {
		properties[def.Name] = fieldSchema(def)
		if !def.Optional {
			required = append(required, def.Name)
		}
	}

	hasAdditional := false
	return &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Properties: properties,
		Required:   required,
		AdditionalProperties: openapi3.AdditionalProperties{
			Has: &hasAdditional,
		},
	}
}

func fieldSchema(def model.FieldDef) *openapi3.SchemaRef {
	elem := elementSchema(def)

	if !def.Repeated {
		if def.Description != "" && elem.Value != nil {
			elem.Value.Description = def.Description
		}
		return elem
	}

	array := &openapi3.Schema{
		Type:        &openapi3.Types{openapi3.TypeArray},
		Items:       elem,
		Description: def.Description,
	}
	if def.Constraints.MinItems != nil {
		array.MinItems = uint64(*def.Constraints.MinItems)
	}
	if def.Constraints.MaxItems != nil {
		maxItems := uint64(*def.Constraints.MaxItems)
		array.MaxItems = &maxItems
	}
	return openapi3.NewSchemaRef("", array)
}

func elementSchema(def model.FieldDef) *openapi3.SchemaRef {
	if def.Elem.IsRecord() {
		return openapi3.NewSchemaRef(componentRefPrefix+def.Elem.Ref, nil)
	}

	schema := &openapi3.Schema{}
	switch def.Elem.Kind {
	case model.KindString:
		schema.Type = &openapi3.Types{openapi3.TypeString}
	case model.KindInteger:
		schema.Type = &openapi3.Types{openapi3.TypeInteger}
	case model.KindNumber:
		schema.Type = &openapi3.Types{openapi3.TypeNumber}
	case model.KindBoolean:
		schema.Type = &openapi3.Types{openapi3.TypeBoolean}
	}

	if len(def.Enum) > 0 {
		schema.Enum = append([]any(nil), def.Enum...)
	}

	c := def.Constraints
	schema.Pattern = c.Pattern
	schema.Format = c.Format
	if c.Minimum != nil {
		schema.Min = c.Minimum
	}
	if c.Maximum != nil {
		schema.Max = c.Maximum
	}
	// OpenAPI 3.0 models exclusivity as booleans alongside the bound.
	if c.ExclusiveMinimum != nil {
		schema.Min = c.ExclusiveMinimum
		schema.ExclusiveMin = true
	}
	if c.ExclusiveMaximum != nil {
		schema.Max = c.ExclusiveMaximum
		schema.ExclusiveMax = true
	}
	schema.MultipleOf = c.MultipleOf

	return openapi3.NewSchemaRef("", schema)
}
