package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-structspec/internal/graph"
	internalmodel "github.com/goliatone/go-structspec/internal/model"
	"github.com/goliatone/go-structspec/pkg/model"
	"github.com/goliatone/go-structspec/pkg/spec"
)

func compile(t *testing.T, ms spec.ModelSpec) *model.TypeModel {
	t.Helper()
	order, err := graph.Resolve(ms)
	require.NoError(t, err)
	m, err := internalmodel.Build(ms, order)
	require.NoError(t, err)
	return m
}

func labelledModel(t *testing.T) *model.TypeModel {
	t.Helper()
	minItems := 1
	return compile(t, spec.ModelSpec{
		Name: "Result",
		Fields: []spec.Field{
			{Name: "summary", Specification: spec.FieldSpec{Dtype: "string"}},
			{Name: "items", Specification: spec.FieldSpec{Dim: 1, Dtype: "Item", MinItems: &minItems}},
		},
		CustomDtypes: []spec.CustomType{
			{Name: "Item", Fields: []spec.Field{
				{Name: "value", Specification: spec.FieldSpec{Dtype: "string"}},
				{Name: "label", Specification: spec.FieldSpec{Dtype: "string", AllowedValues: []string{"a", "b"}}},
			}},
		},
	})
}

func TestValidateConformingInstance(t *testing.T) {
	t.Parallel()

	m := labelledModel(t)
	result, err := Validate(m, m.Root(), map[string]any{
		"summary": "two items",
		"items": []any{
			map[string]any{"value": "first", "label": "a"},
			map[string]any{"value": "second", "label": "b"},
		},
	})
	require.NoError(t, err)
	require.True(t, result.Valid, "issues: %v", result.Issues)
}

func TestValidateAccumulatesIssues(t *testing.T) {
	t.Parallel()

	m := labelledModel(t)
	result, err := Validate(m, m.Root(), map[string]any{
		"items": []any{
			map[string]any{"value": 1, "label": "z"},
		},
		"extra": true,
	})
	require.NoError(t, err)
	require.False(t, result.Valid)

	paths := make(map[string]string, len(result.Issues))
	for _, issue := range result.Issues {
		paths[issue.Path] = issue.Message
	}
	require.Contains(t, paths, "summary", "missing required field")
	require.Contains(t, paths, "items[0].value", "type mismatch inside array")
	require.Contains(t, paths, "items[0].label", "enum violation")
	require.Contains(t, paths, "extra", "closed record rejects extras")
}

func TestValidateArrayCardinality(t *testing.T) {
	t.Parallel()

	m := labelledModel(t)
	result, err := Validate(m, m.Root(), map[string]any{
		"summary": "no items",
		"items":   []any{},
	})
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	require.Equal(t, "items", result.Issues[0].Path)
}

func TestValidateOptionalFieldMayBeAbsent(t *testing.T) {
	t.Parallel()

	m := compile(t, spec.ModelSpec{
		Name: "Result",
		Fields: []spec.Field{
			{Name: "note", Specification: spec.FieldSpec{Dtype: "string", Optional: true}},
		},
	})

	result, err := Validate(m, m.Root(), map[string]any{})
	require.NoError(t, err)
	require.True(t, result.Valid)

	// Explicit null counts as absent.
	result, err = Validate(m, m.Root(), map[string]any{"note": nil})
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestValidateStringConstraints(t *testing.T) {
	t.Parallel()

	m := compile(t, spec.ModelSpec{
		Name: "Result",
		Fields: []spec.Field{
			{Name: "email", Specification: spec.FieldSpec{Dtype: "string", Format: "email"}},
			{Name: "id", Specification: spec.FieldSpec{Dtype: "string", Format: "uuid", Optional: true}},
			{Name: "when", Specification: spec.FieldSpec{Dtype: "string", Format: "date-time", Optional: true}},
			{Name: "code", Specification: spec.FieldSpec{Dtype: "string", Pattern: "^[A-Z]{3}$", Optional: true}},
		},
	})

	result, err := Validate(m, m.Root(), map[string]any{
		"email": "dev@example.com",
		"id":    "6f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0",
		"when":  "2026-08-24T12:00:00Z",
		"code":  "ABC",
	})
	require.NoError(t, err)
	require.True(t, result.Valid, "issues: %v", result.Issues)

	result, err = Validate(m, m.Root(), map[string]any{
		"email": "not-an-email",
		"id":    "nope",
		"when":  "yesterday",
		"code":  "abc",
	})
	require.NoError(t, err)
	require.Len(t, result.Issues, 4)
}

func TestValidatePatternAcrossRepeatedRecords(t *testing.T) {
	t.Parallel()

	// The same pattern applies to every Item in the array; one compiled
	// matcher serves the whole pass.
	m := compile(t, spec.ModelSpec{
		Name:   "Result",
		Fields: []spec.Field{{Name: "items", Specification: spec.FieldSpec{Dim: 1, Dtype: "Item"}}},
		CustomDtypes: []spec.CustomType{
			{Name: "Item", Fields: []spec.Field{
				{Name: "code", Specification: spec.FieldSpec{Dtype: "string", Pattern: "^[A-Z]{3}$"}},
			}},
		},
	})

	result, err := Validate(m, m.Root(), map[string]any{
		"items": []any{
			map[string]any{"code": "ABC"},
			map[string]any{"code": "bad"},
			map[string]any{"code": "XYZ"},
			map[string]any{"code": "nope"},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Issues, 2)
	require.Equal(t, "items[1].code", result.Issues[0].Path)
	require.Equal(t, "items[3].code", result.Issues[1].Path)
}

func TestValidateNumericConstraints(t *testing.T) {
	t.Parallel()

	minimum := 0.0
	exclusiveMax := 1.0
	multipleOf := 0.25
	m := compile(t, spec.ModelSpec{
		Name: "Result",
		Fields: []spec.Field{
			{Name: "ratio", Specification: spec.FieldSpec{
				Dtype:            "number",
				Minimum:          &minimum,
				ExclusiveMaximum: &exclusiveMax,
				MultipleOf:       &multipleOf,
			}},
		},
	})

	result, err := Validate(m, m.Root(), map[string]any{"ratio": 0.75})
	require.NoError(t, err)
	require.True(t, result.Valid, "issues: %v", result.Issues)

	cases := map[string]any{
		"below minimum":    -0.25,
		"at exclusive max": 1.0,
		"not a multiple":   0.3,
		"wrong type":       "0.5",
	}
	for name, value := range cases {
		result, err = Validate(m, m.Root(), map[string]any{"ratio": value})
		require.NoError(t, err)
		require.False(t, result.Valid, name)
	}
}

func TestValidateIntegerRejectsFractions(t *testing.T) {
	t.Parallel()

	m := compile(t, spec.ModelSpec{
		Name:   "Result",
		Fields: []spec.Field{{Name: "count", Specification: spec.FieldSpec{Dtype: "integer"}}},
	})

	// JSON decoding yields float64 for all numbers; integral values pass.
	result, err := Validate(m, m.Root(), map[string]any{"count": float64(3)})
	require.NoError(t, err)
	require.True(t, result.Valid)

	result, err = Validate(m, m.Root(), map[string]any{"count": 3.5})
	require.NoError(t, err)
	require.False(t, result.Valid)
}

func TestValidateNumericEnumByValue(t *testing.T) {
	t.Parallel()

	m := compile(t, spec.ModelSpec{
		Name: "Result",
		Fields: []spec.Field{
			{Name: "level", Specification: spec.FieldSpec{Dtype: "integer", AllowedValues: []string{"1", "2"}}},
		},
	})

	// Decoded JSON numbers are float64; membership compares by value.
	result, err := Validate(m, m.Root(), map[string]any{"level": float64(2)})
	require.NoError(t, err)
	require.True(t, result.Valid, "issues: %v", result.Issues)

	result, err = Validate(m, m.Root(), map[string]any{"level": float64(3)})
	require.NoError(t, err)
	require.False(t, result.Valid)
}

func TestValidateNestedRecordsAndBbox(t *testing.T) {
	t.Parallel()

	m := compile(t, spec.ModelSpec{
		Name:   "Result",
		Fields: []spec.Field{{Name: "region", Specification: spec.FieldSpec{Dtype: "bbox"}}},
	})

	result, err := Validate(m, m.Root(), map[string]any{
		"region": map[string]any{"x1": 0.0, "y1": 0.0, "x2": 10.0, "y2": 12.0},
	})
	require.NoError(t, err)
	require.True(t, result.Valid, "issues: %v", result.Issues)

	result, err = Validate(m, m.Root(), map[string]any{
		"region": map[string]any{"x1": 0.0, "y1": 0.0, "x2": 10.0},
	})
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, "region.y2", result.Issues[0].Path)
}

func TestValidateUnknownRoot(t *testing.T) {
	t.Parallel()

	m := labelledModel(t)
	_, err := Validate(m, "Missing", map[string]any{})
	require.True(t, spec.IsKind(err, spec.KindUnknownRoot))
}
