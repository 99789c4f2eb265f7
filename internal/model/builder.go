package model

import (
	"fmt"

	"github.com/goliatone/go-structspec/internal/graph"
	"github.com/goliatone/go-structspec/pkg/spec"
)

// Build synthesizes a TypeModel from a resolver-validated specification.
//
// Construction is two-phase: an empty RecordType is registered for every type
// name up front, then fields are populated following the resolver's order
// (cyclic groups together). A field referencing a record that has not been
// populated yet resolves against the placeholder, which is what makes self-
// and mutually-referential dtypes safe to build.
//
// Build is total over valid input; any error it returns indicates a defect in
// an earlier stage, not a user-facing specification error.
func Build(ms spec.ModelSpec, order graph.BuildOrder) (*TypeModel, error) {
	m := &TypeModel{
		root:    ms.Name,
		records: make(map[string]*RecordType, len(ms.CustomDtypes)+1),
	}

	for _, name := range ms.TypeNames() {
		m.declare(name)
	}

	fieldsByType := make(map[string][]spec.Field, len(ms.CustomDtypes)+1)
	fieldsByType[ms.Name] = ms.Fields
	for _, custom := range ms.CustomDtypes {
		fieldsByType[custom.Name] = custom.Fields
	}

	for _, group := range order.Sequence {
		for _, name := range group.Members {
			fields, ok := fieldsByType[name]
			if !ok {
				return nil, fmt.Errorf("model: build order names undeclared type %q", name)
			}
			if err := m.populate(name, fields); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (m *TypeModel) declare(name string) *RecordType {
	if record, ok := m.records[name]; ok {
		return record
	}
	record := &RecordType{Name: name}
	m.records[name] = record
	m.order = append(m.order, name)
	return record
}

func (m *TypeModel) populate(name string, fields []spec.Field) error {
	record, ok := m.records[name]
	if !ok {
		return fmt.Errorf("model: record %q was never declared", name)
	}

	defs := make([]FieldDef, 0, len(fields))
	for _, field := range fields {
		def, err := m.fieldDef(field)
		if err != nil {
			return fmt.Errorf("model: record %q field %q: %w", name, field.Name, err)
		}
		defs = append(defs, def)
	}
	record.Fields = defs
	return nil
}

func (m *TypeModel) fieldDef(field spec.Field) (FieldDef, error) {
	fs := field.Specification

	elem, err := m.element(fs.Dtype)
	if err != nil {
		return FieldDef{}, err
	}

	def := FieldDef{
		Name:        field.Name,
		Elem:        elem,
		Repeated:    fs.Dim == 1,
		Optional:    fs.Optional,
		Description: fs.Description,
		Constraints: Constraints{
			Pattern:          fs.Pattern,
			Format:           fs.Format,
			Minimum:          fs.Minimum,
			Maximum:          fs.Maximum,
			ExclusiveMinimum: fs.ExclusiveMinimum,
			ExclusiveMaximum: fs.ExclusiveMaximum,
			MultipleOf:       fs.MultipleOf,
			MinItems:         fs.MinItems,
			MaxItems:         fs.MaxItems,
		},
	}

	if len(fs.AllowedValues) > 0 {
		primitive, ok := spec.PrimitiveFromName(fs.Dtype)
		if !ok {
			return FieldDef{}, fmt.Errorf("allowed_values on non-primitive dtype %q", fs.Dtype)
		}
		values := make([]any, 0, len(fs.AllowedValues))
		for _, raw := range fs.AllowedValues {
			value, err := spec.CoerceEnumValue(primitive, raw)
			if err != nil {
				return FieldDef{}, fmt.Errorf("allowed value %q: %w", raw, err)
			}
			values = append(values, value)
		}
		def.Enum = values
	}

	return def, nil
}

// element resolves a dtype name to its tagged element. Primitive record
// dtypes (bbox) register their built-in definition on first use.
func (m *TypeModel) element(dtype string) (Element, error) {
	if primitive, ok := spec.PrimitiveFromName(dtype); ok {
		switch primitive {
		case spec.PrimitiveString:
			return Element{Kind: KindString}, nil
		case spec.PrimitiveInteger:
			return Element{Kind: KindInteger}, nil
		case spec.PrimitiveNumber:
			return Element{Kind: KindNumber}, nil
		case spec.PrimitiveBoolean:
			return Element{Kind: KindBoolean}, nil
		case spec.PrimitiveBbox:
			m.declareBbox()
			return Element{Kind: KindRecord, Ref: BboxTypeName}, nil
		}
	}
	if _, ok := m.records[dtype]; !ok {
		return Element{}, fmt.Errorf("dtype %q resolves to no declared record", dtype)
	}
	return Element{Kind: KindRecord, Ref: dtype}, nil
}

// declareBbox registers the built-in bounding box record used by grounding
// tasks: four integer corner coordinates, all required.
func (m *TypeModel) declareBbox() {
	if _, ok := m.records[BboxTypeName]; ok {
		return
	}
	record := m.declare(BboxTypeName)
	record.Fields = []FieldDef{
		{Name: "x1", Elem: Element{Kind: KindInteger}},
		{Name: "y1", Elem: Element{Kind: KindInteger}},
		{Name: "x2", Elem: Element{Kind: KindInteger}},
		{Name: "y2", Elem: Element{Kind: KindInteger}},
	}
}
