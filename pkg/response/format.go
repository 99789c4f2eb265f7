// Package response wraps compiled JSON Schema documents in the response
// format envelopes expected by structured-generation APIs.
package response

import (
	"errors"

	"github.com/goliatone/go-structspec/internal/project"
	"github.com/goliatone/go-structspec/pkg/model"
)

// FormatType identifies the response modality requested from the provider.
type FormatType string

const (
	FormatTypeText       FormatType = "text"
	FormatTypeJSONObject FormatType = "json_object"
	FormatTypeJSONSchema FormatType = "json_schema"
)

// JSONSchemaFormat is the schema payload of a json_schema response format.
type JSONSchemaFormat struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty"`
	Strict      *bool          `json:"strict,omitempty"`
}

// Format is the OpenAI-style response_format envelope.
type Format struct {
	Type       FormatType        `json:"type"`
	JSONSchema *JSONSchemaFormat `json:"json_schema,omitempty"`
}

// Option adjusts an envelope before it is returned.
type Option func(*JSONSchemaFormat)

// WithDescription attaches a description to the schema payload.
func WithDescription(description string) Option {
	return func(f *JSONSchemaFormat) {
		f.Description = description
	}
}

// WithStrict toggles strict schema adherence. Defaults to true.
func WithStrict(strict bool) Option {
	return func(f *JSONSchemaFormat) {
		f.Strict = &strict
	}
}

// OpenAI renders the model's root record as an OpenAI response_format value
// with strict adherence enabled.
func OpenAI(m *model.TypeModel, options ...Option) (Format, error) {
	if m == nil {
		return Format{}, errors.New("response: type model is nil")
	}

	schema, err := project.JSONSchema(m, m.Root())
	if err != nil {
		return Format{}, err
	}

	strict := true
	payload := &JSONSchemaFormat{
		Name:   m.Root(),
		Schema: schema,
		Strict: &strict,
	}
	for _, opt := range options {
		if opt != nil {
			opt(payload)
		}
	}

	return Format{Type: FormatTypeJSONSchema, JSONSchema: payload}, nil
}

// AnthropicTool renders the model's root record as an Anthropic tool
// definition whose input schema is the compiled document. Forcing the tool
// yields schema-constrained output.
func AnthropicTool(m *model.TypeModel, description string) (map[string]any, error) {
	if m == nil {
		return nil, errors.New("response: type model is nil")
	}

	schema, err := project.JSONSchema(m, m.Root())
	if err != nil {
		return nil, err
	}

	tool := map[string]any{
		"name":         m.Root(),
		"input_schema": schema,
	}
	if description != "" {
		tool["description"] = description
	}
	return tool, nil
}
