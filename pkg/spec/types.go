package spec

import "strings"

// Primitive enumerates the built-in dtypes a field specification may name.
type Primitive string

const (
	PrimitiveString  Primitive = "string"
	PrimitiveInteger Primitive = "integer"
	PrimitiveNumber  Primitive = "number"
	PrimitiveBoolean Primitive = "boolean"
	PrimitiveBbox    Primitive = "bbox"
)

// primitiveAliases maps accepted dtype spellings to their canonical primitive.
var primitiveAliases = map[string]Primitive{
	"string":  PrimitiveString,
	"str":     PrimitiveString,
	"integer": PrimitiveInteger,
	"int":     PrimitiveInteger,
	"number":  PrimitiveNumber,
	"float":   PrimitiveNumber,
	"boolean": PrimitiveBoolean,
	"bool":    PrimitiveBoolean,
	"bbox":    PrimitiveBbox,
}

// PrimitiveFromName resolves a dtype string to its canonical primitive.
// Matching is case-insensitive and accepts the short aliases (str, int,
// float, bool).
func PrimitiveFromName(name string) (Primitive, bool) {
	primitive, ok := primitiveAliases[strings.ToLower(strings.TrimSpace(name))]
	return primitive, ok
}

// allowedFormats is the fixed set of string format constraints.
var allowedFormats = map[string]struct{}{
	"email":     {},
	"date-time": {},
	"uri":       {},
	"uuid":      {},
}

// IsAllowedFormat reports whether the supplied format constraint is supported.
func IsAllowedFormat(format string) bool {
	_, ok := allowedFormats[format]
	return ok
}

// AllowedFormats returns the supported format constraint names.
func AllowedFormats() []string {
	return []string{"date-time", "email", "uri", "uuid"}
}

// FieldSpec describes the dtype of a single field: its dimensionality, base
// dtype, optionality, and any value constraints. The wire shape mirrors the
// `specification` object of the authoring format.
type FieldSpec struct {
	Dim           int      `json:"dim" yaml:"dim"`
	Dtype         string   `json:"dtype" yaml:"dtype"`
	AllowedValues []string `json:"allowed_values,omitempty" yaml:"allowed_values,omitempty"`
	Optional      bool     `json:"optional,omitempty" yaml:"optional,omitempty"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`

	// string constraints (dim=0, dtype=string only)
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`

	// numeric constraints (dtype=integer|number only)
	Minimum          *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty" yaml:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty" yaml:"multipleOf,omitempty"`

	// array constraints (dim=1 only)
	MinItems *int `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems *int `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
}

// Field pairs a name with its specification. Field order is significant and
// preserved through compilation.
type Field struct {
	Name          string    `json:"name" yaml:"name"`
	Specification FieldSpec `json:"specification" yaml:"specification"`
}

// CustomType declares a user-defined record dtype. Its fields may reference
// primitives, other custom types, or the declaring type itself.
type CustomType struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// ModelSpec is the root specification: the named result record plus any
// custom dtype declarations it depends on. A ModelSpec is constructed once by
// Parse and treated as immutable afterwards.
type ModelSpec struct {
	Name         string       `json:"name" yaml:"name"`
	Fields       []Field      `json:"fields" yaml:"fields"`
	CustomDtypes []CustomType `json:"custom_dtypes,omitempty" yaml:"custom_dtypes,omitempty"`
}

// CustomType looks up a declared custom dtype by name.
func (m ModelSpec) CustomType(name string) (CustomType, bool) {
	for _, custom := range m.CustomDtypes {
		if custom.Name == name {
			return custom, true
		}
	}
	return CustomType{}, false
}

// TypeNames returns the root name followed by every declared custom dtype
// name, in declaration order.
func (m ModelSpec) TypeNames() []string {
	names := make([]string, 0, len(m.CustomDtypes)+1)
	names = append(names, m.Name)
	for _, custom := range m.CustomDtypes {
		names = append(names, custom.Name)
	}
	return names
}
