package prompt

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-structspec/internal/graph"
	internalmodel "github.com/goliatone/go-structspec/internal/model"
	"github.com/goliatone/go-structspec/pkg/model"
	"github.com/goliatone/go-structspec/pkg/spec"
)

// scriptedDriver replays canned answers so builder logic can run without a
// terminal. Inputs, confirms, and selections are consumed in order.
type scriptedDriver struct {
	t        *testing.T
	inputs   []string
	confirms []bool
	selects  []int
}

func (d *scriptedDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	d.t.Helper()
	if len(d.inputs) == 0 {
		d.t.Fatalf("unexpected input prompt: %s", cfg.Message)
	}
	answer := d.inputs[0]
	d.inputs = d.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			d.t.Fatalf("scripted answer %q rejected: %v", answer, err)
		}
	}
	return answer, nil
}

func (d *scriptedDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	d.t.Helper()
	if len(d.confirms) == 0 {
		d.t.Fatalf("unexpected confirm prompt: %s", cfg.Message)
	}
	answer := d.confirms[0]
	d.confirms = d.confirms[1:]
	return answer, nil
}

func (d *scriptedDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	d.t.Helper()
	if len(d.selects) == 0 {
		d.t.Fatalf("unexpected select prompt: %s", cfg.Message)
	}
	answer := d.selects[0]
	d.selects = d.selects[1:]
	return answer, nil
}

func (d *scriptedDriver) Info(ctx context.Context, msg string) error {
	return nil
}

func compile(t *testing.T, ms spec.ModelSpec) *model.TypeModel {
	t.Helper()
	order, err := graph.Resolve(ms)
	require.NoError(t, err)
	m, err := internalmodel.Build(ms, order)
	require.NoError(t, err)
	return m
}

func TestBuildCollectsScalarsAndArrays(t *testing.T) {
	t.Parallel()

	m := compile(t, spec.ModelSpec{
		Name: "Result",
		Fields: []spec.Field{
			{Name: "summary", Specification: spec.FieldSpec{Dtype: "string"}},
			{Name: "count", Specification: spec.FieldSpec{Dtype: "integer"}},
			{Name: "ratio", Specification: spec.FieldSpec{Dtype: "number"}},
			{Name: "done", Specification: spec.FieldSpec{Dtype: "bool"}},
			{Name: "tags", Specification: spec.FieldSpec{Dim: 1, Dtype: "string"}},
		},
	})

	driver := &scriptedDriver{
		t:      t,
		inputs: []string{"hello", "3", "0.5", "alpha", "beta"},
		// done=true, then: add tag, add another, stop.
		confirms: []bool{true, true, true, false},
	}

	value, err := New(WithDriver(driver)).Build(context.Background(), m, m.Root())
	require.NoError(t, err)

	require.Equal(t, "hello", value["summary"])
	require.Equal(t, int64(3), value["count"])
	require.Equal(t, 0.5, value["ratio"])
	require.Equal(t, true, value["done"])
	require.Equal(t, []any{"alpha", "beta"}, value["tags"])
}

func TestBuildSkipsDeclinedOptionalField(t *testing.T) {
	t.Parallel()

	m := compile(t, spec.ModelSpec{
		Name: "Result",
		Fields: []spec.Field{
			{Name: "summary", Specification: spec.FieldSpec{Dtype: "string"}},
			{Name: "note", Specification: spec.FieldSpec{Dtype: "string", Optional: true}},
		},
	})

	driver := &scriptedDriver{
		t:        t,
		inputs:   []string{"hello"},
		confirms: []bool{false},
	}

	value, err := New(WithDriver(driver)).Build(context.Background(), m, m.Root())
	require.NoError(t, err)
	require.NotContains(t, value, "note")
}

func TestBuildSelectsEnumValue(t *testing.T) {
	t.Parallel()

	m := compile(t, spec.ModelSpec{
		Name: "Result",
		Fields: []spec.Field{
			{Name: "level", Specification: spec.FieldSpec{Dtype: "integer", AllowedValues: []string{"1", "2", "3"}}},
		},
	})

	driver := &scriptedDriver{t: t, selects: []int{1}}

	value, err := New(WithDriver(driver)).Build(context.Background(), m, m.Root())
	require.NoError(t, err)

	// The coerced enum literal comes back, not its display string.
	require.Equal(t, int64(2), value["level"])
}

func TestBuildNestedRecord(t *testing.T) {
	t.Parallel()

	m := compile(t, spec.ModelSpec{
		Name:   "Result",
		Fields: []spec.Field{{Name: "item", Specification: spec.FieldSpec{Dtype: "Item"}}},
		CustomDtypes: []spec.CustomType{
			{Name: "Item", Fields: []spec.Field{
				{Name: "value", Specification: spec.FieldSpec{Dtype: "string"}},
			}},
		},
	})

	driver := &scriptedDriver{t: t, inputs: []string{"nested"}}

	value, err := New(WithDriver(driver)).Build(context.Background(), m, m.Root())
	require.NoError(t, err)
	require.Equal(t, map[string]any{"value": "nested"}, value["item"])
}

func TestBuildRecursiveModelHitsDepthBound(t *testing.T) {
	t.Parallel()

	m := compile(t, spec.ModelSpec{
		Name:   "Result",
		Fields: []spec.Field{{Name: "tree", Specification: spec.FieldSpec{Dtype: "Node"}}},
		CustomDtypes: []spec.CustomType{
			{Name: "Node", Fields: []spec.Field{
				{Name: "child", Specification: spec.FieldSpec{Dtype: "Node"}},
			}},
		},
	})

	// No prompts fire before the bound: descending into Node.child recurses
	// until the depth limit trips.
	driver := &scriptedDriver{t: t}

	_, err := New(WithDriver(driver), WithMaxDepth(3)).Build(context.Background(), m, m.Root())
	require.ErrorIs(t, err, ErrDepthExceeded)
}

func TestBuildUnknownRoot(t *testing.T) {
	t.Parallel()

	m := compile(t, spec.ModelSpec{
		Name:   "Result",
		Fields: []spec.Field{{Name: "done", Specification: spec.FieldSpec{Dtype: "bool"}}},
	})

	_, err := New(WithDriver(&scriptedDriver{t: t})).Build(context.Background(), m, "Missing")
	require.True(t, spec.IsKind(err, spec.KindUnknownRoot))
}

func TestValidators(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateInteger(" 42 "))
	require.Error(t, validateInteger("4.2"))
	require.NoError(t, validateNumber("4.2"))
	require.Error(t, validateNumber("four"))
	require.Error(t, validateInteger(strings.Repeat("9", 30)))
}
