package spec

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Document wraps the raw specification payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("spec: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("spec: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Decode unmarshals the payload into an untyped value. JSON documents are
// tried first; anything that is not JSON falls back to YAML, which covers the
// .yaml/.yml authoring path.
func (d Document) Decode() (any, error) {
	raw := bytes.TrimSpace(d.raw)
	if len(raw) == 0 {
		return nil, errors.New("spec: raw document is empty")
	}

	if raw[0] == '{' || raw[0] == '[' {
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("spec: decode json document: %w", err)
		}
		return value, nil
	}

	var value any
	if err := yaml.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("spec: decode yaml document: %w", err)
	}
	return value, nil
}

// Loader fetches specification documents from a Source.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}
