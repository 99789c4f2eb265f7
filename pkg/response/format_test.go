package response

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-structspec/internal/graph"
	internalmodel "github.com/goliatone/go-structspec/internal/model"
	"github.com/goliatone/go-structspec/pkg/model"
	"github.com/goliatone/go-structspec/pkg/spec"
)

func resultModel(t *testing.T) *model.TypeModel {
	t.Helper()
	ms := spec.ModelSpec{
		Name: "Result",
		Fields: []spec.Field{
			{Name: "summary", Specification: spec.FieldSpec{Dtype: "string"}},
			{Name: "items", Specification: spec.FieldSpec{Dim: 1, Dtype: "Item"}},
		},
		CustomDtypes: []spec.CustomType{
			{Name: "Item", Fields: []spec.Field{
				{Name: "value", Specification: spec.FieldSpec{Dtype: "string"}},
			}},
		},
	}
	order, err := graph.Resolve(ms)
	require.NoError(t, err)
	m, err := internalmodel.Build(ms, order)
	require.NoError(t, err)
	return m
}

func TestOpenAIFormat(t *testing.T) {
	t.Parallel()

	format, err := OpenAI(resultModel(t))
	require.NoError(t, err)

	require.Equal(t, FormatTypeJSONSchema, format.Type)
	require.NotNil(t, format.JSONSchema)
	require.Equal(t, "Result", format.JSONSchema.Name)
	require.NotNil(t, format.JSONSchema.Strict)
	require.True(t, *format.JSONSchema.Strict, "strict adherence is the default")

	schema := format.JSONSchema.Schema
	require.Equal(t, "object", schema["type"])
	require.Contains(t, schema["definitions"], "Item")
}

func TestOpenAIFormatOptions(t *testing.T) {
	t.Parallel()

	format, err := OpenAI(resultModel(t), WithDescription("extraction result"), WithStrict(false))
	require.NoError(t, err)

	require.Equal(t, "extraction result", format.JSONSchema.Description)
	require.False(t, *format.JSONSchema.Strict)
}

func TestOpenAIRejectsNilModel(t *testing.T) {
	t.Parallel()

	_, err := OpenAI(nil)
	require.Error(t, err)
}

func TestAnthropicTool(t *testing.T) {
	t.Parallel()

	tool, err := AnthropicTool(resultModel(t), "record the extraction result")
	require.NoError(t, err)

	require.Equal(t, "Result", tool["name"])
	require.Equal(t, "record the extraction result", tool["description"])

	schema, ok := tool["input_schema"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "object", schema["type"])
}

func TestAnthropicToolOmitsEmptyDescription(t *testing.T) {
	t.Parallel()

	tool, err := AnthropicTool(resultModel(t), "")
	require.NoError(t, err)
	require.NotContains(t, tool, "description")
}
