// Package model holds the compiled type model: a name-indexed arena of record
// types with fully resolved field definitions. Records reference one another
// by name through the arena, never by structural copy, which keeps recursive
// type graphs finite.
package model

// Kind is the resolved element kind of a field.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindRecord  Kind = "record"
)

// BboxTypeName is the record name reserved for the built-in bbox dtype.
const BboxTypeName = "Bbox"

// Element is the tagged variant at the heart of a field definition: either a
// primitive kind or a by-name reference to another record in the same model.
type Element struct {
	Kind Kind
	// Ref names the referenced record when Kind is KindRecord.
	Ref string
}

// IsRecord reports whether the element references a record type.
func (e Element) IsRecord() bool {
	return e.Kind == KindRecord
}

// Constraints carries the dtype-specific restrictions attached to a field.
// Nil pointers mean "not constrained".
type Constraints struct {
	Pattern          string
	Format           string
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64
	MinItems         *int
	MaxItems         *int
}

// Empty reports whether no constraint is set.
func (c Constraints) Empty() bool {
	return c == Constraints{}
}

// FieldDef is a fully resolved field: element type, dimensionality, and
// attached constraints. Enum holds allowed values coerced to the element's
// native representation; for repeated fields it restricts each element.
type FieldDef struct {
	Name        string
	Elem        Element
	Repeated    bool
	Optional    bool
	Description string
	Enum        []any
	Constraints Constraints
}

// RecordType is a named record with ordered field definitions. Field order
// matches declaration order in the source specification.
type RecordType struct {
	Name   string
	Fields []FieldDef
}

// Field looks up a field definition by name.
func (r *RecordType) Field(name string) (FieldDef, bool) {
	for _, field := range r.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDef{}, false
}

// TypeModel owns every RecordType compiled from one specification. It is
// immutable after Build returns; concurrent readers need no locking.
type TypeModel struct {
	root    string
	records map[string]*RecordType
	order   []string
}

// Root returns the root record name.
func (m *TypeModel) Root() string {
	return m.root
}

// Record looks up a record type by name.
func (m *TypeModel) Record(name string) (*RecordType, bool) {
	record, ok := m.records[name]
	return record, ok
}

// Names returns every record name in declaration order: root first, custom
// dtypes in declaration order, then the bbox built-in when referenced.
func (m *TypeModel) Names() []string {
	return append([]string(nil), m.order...)
}

// Len reports the number of records in the model.
func (m *TypeModel) Len() int {
	return len(m.order)
}
