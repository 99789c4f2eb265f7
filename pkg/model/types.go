// Package model re-exports the compiled type model for external consumers.
package model

import internalmodel "github.com/goliatone/go-structspec/internal/model"

// Kind re-exports the internal element kind enumeration.
type Kind = internalmodel.Kind

const (
	KindString  = internalmodel.KindString
	KindInteger = internalmodel.KindInteger
	KindNumber  = internalmodel.KindNumber
	KindBoolean = internalmodel.KindBoolean
	KindRecord  = internalmodel.KindRecord
)

// BboxTypeName is the record name reserved for the built-in bbox dtype.
const BboxTypeName = internalmodel.BboxTypeName

type Element = internalmodel.Element
type Constraints = internalmodel.Constraints
type FieldDef = internalmodel.FieldDef
type RecordType = internalmodel.RecordType
type TypeModel = internalmodel.TypeModel
