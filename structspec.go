// Package structspec compiles declarative schema specifications into type
// models and JSON Schema documents for structured LLM output. The root
// package exposes convenience entry points; pkg/compiler holds the pipeline
// and pkg/spec the specification types.
package structspec

import (
	"context"

	"github.com/goliatone/go-structspec/pkg/compiler"
	"github.com/goliatone/go-structspec/pkg/spec"
)

// Request aliases the compiler request for convenience.
type Request = compiler.Request

// Artifacts aliases the compiler output bundle.
type Artifacts = compiler.Artifacts

// Option aliases compiler options so callers can configure the convenience
// entry points without importing pkg/compiler.
type Option = compiler.Option

// NewCompiler exposes the compiler constructor from the top-level module.
func NewCompiler(options ...Option) *compiler.Compiler {
	return compiler.New(options...)
}

// Compile parses and compiles an already-decoded specification value.
func Compile(value any, options ...Option) (Artifacts, error) {
	c := compiler.New(options...)
	return c.Compile(context.Background(), Request{Value: value})
}

// CompileFile loads, parses, and compiles a specification from a local JSON
// or YAML file.
func CompileFile(ctx context.Context, path string, options ...Option) (Artifacts, error) {
	c := compiler.New(options...)
	return c.Compile(ctx, Request{Source: spec.SourceFromFile(path)})
}

// CompileDocument compiles a pre-loaded specification document, bypassing the
// loader stage.
func CompileDocument(ctx context.Context, doc spec.Document, options ...Option) (Artifacts, error) {
	c := compiler.New(options...)
	return c.Compile(ctx, Request{Document: &doc})
}
