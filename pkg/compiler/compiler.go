// Package compiler wires the compilation pipeline: load a specification
// document, parse and validate it, resolve dtype references, synthesize the
// type model, and project the output documents.
package compiler

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-structspec/internal/graph"
	internalmodel "github.com/goliatone/go-structspec/internal/model"
	"github.com/goliatone/go-structspec/internal/project"
	"github.com/goliatone/go-structspec/internal/specloader"
	"github.com/goliatone/go-structspec/pkg/model"
	"github.com/goliatone/go-structspec/pkg/spec"
)

// Request identifies the specification to compile. Exactly one of Value,
// Document, or Source must be supplied; they are consulted in that order.
type Request struct {
	// Source locates a document for the configured loader.
	Source spec.Source
	// Document supplies a pre-loaded document, bypassing the loader.
	Document *spec.Document
	// Value supplies an already-decoded specification value.
	Value any
	// Root optionally projects a record other than the specification root.
	Root string
}

// Artifacts bundles everything one compilation produces. All members are
// immutable once returned.
type Artifacts struct {
	Spec       spec.ModelSpec
	Model      *model.TypeModel
	Normalized map[string]any
	JSONSchema map[string]any
}

// Compiler executes the pipeline. The zero value is not usable; construct
// with New.
type Compiler struct {
	loader spec.Loader

	loaderOpts specloader.Options
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLoader injects a custom document loader.
func WithLoader(loader spec.Loader) Option {
	return func(c *Compiler) {
		c.loader = loader
	}
}

// WithFS serves fs sources from the supplied filesystem.
func WithFS(fsys fs.FS) Option {
	return func(c *Compiler) {
		c.loaderOpts.FileSystem = fsys
	}
}

// WithHTTP enables URL sources using a default client.
func WithHTTP(allow bool) Option {
	return func(c *Compiler) {
		c.loaderOpts.AllowHTTP = allow
	}
}

// WithHTTPClient enables URL sources with the supplied client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Compiler) {
		c.loaderOpts.HTTPClient = client
	}
}

// WithRequestTimeout bounds HTTP document fetches.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Compiler) {
		c.loaderOpts.RequestTimeout = timeout
	}
}

// New constructs a Compiler with the supplied options.
func New(options ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.loader == nil {
		c.loader = specloader.New(c.loaderOpts)
	}
	return c
}

// Compile runs the full pipeline for one request. Compilation itself is pure
// and synchronous; the context only governs document loading.
func (c *Compiler) Compile(ctx context.Context, req Request) (Artifacts, error) {
	value, err := c.resolveValue(ctx, req)
	if err != nil {
		return Artifacts{}, err
	}

	ms, err := spec.Parse(value)
	if err != nil {
		return Artifacts{}, err
	}

	return c.compileSpec(ms, req.Root)
}

// CompileSpec compiles an already-parsed specification, skipping the load and
// parse stages. The specification must have come from spec.Parse.
func (c *Compiler) CompileSpec(ms spec.ModelSpec) (Artifacts, error) {
	return c.compileSpec(ms, "")
}

func (c *Compiler) compileSpec(ms spec.ModelSpec, root string) (Artifacts, error) {
	order, err := graph.Resolve(ms)
	if err != nil {
		return Artifacts{}, err
	}

	typeModel, err := internalmodel.Build(ms, order)
	if err != nil {
		return Artifacts{}, err
	}

	if root == "" {
		root = typeModel.Root()
	}

	normalized, err := project.Normalized(typeModel, root)
	if err != nil {
		return Artifacts{}, err
	}
	jsonSchema, err := project.JSONSchema(typeModel, root)
	if err != nil {
		return Artifacts{}, err
	}

	return Artifacts{
		Spec:       ms,
		Model:      typeModel,
		Normalized: normalized,
		JSONSchema: jsonSchema,
	}, nil
}

func (c *Compiler) resolveValue(ctx context.Context, req Request) (any, error) {
	if req.Value != nil {
		return req.Value, nil
	}

	if req.Document != nil {
		return req.Document.Decode()
	}

	if req.Source == nil {
		return nil, errors.New("compiler: request needs a value, document, or source")
	}
	if c.loader == nil {
		return nil, errors.New("compiler: loader is not configured")
	}
	doc, err := c.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	return doc.Decode()
}
