// Package prompt constructs instances of a compiled type model through an
// interactive terminal session. Each field of the root record (and any nested
// records) is collected with a prompt appropriate to its element kind.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-structspec/pkg/model"
	"github.com/goliatone/go-structspec/pkg/spec"
)

const defaultMaxDepth = 16

// Builder walks a type model and collects an instance value from the driver.
type Builder struct {
	driver   Driver
	maxDepth int
}

// Option configures a Builder.
type Option func(*Builder)

// WithDriver injects a prompt driver; the default talks to the terminal via
// survey.
func WithDriver(driver Driver) Option {
	return func(b *Builder) {
		b.driver = driver
	}
}

// WithMaxDepth bounds record nesting. Recursive models need a bound or the
// session never terminates when the user keeps descending.
func WithMaxDepth(depth int) Option {
	return func(b *Builder) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// New constructs a Builder with the supplied options.
func New(options ...Option) *Builder {
	b := &Builder{maxDepth: defaultMaxDepth}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	if b.driver == nil {
		b.driver = newSurveyDriver()
	}
	return b
}

// Build collects an instance of the named record. The returned value decodes
// cleanly against the same model in the validation package.
func (b *Builder) Build(ctx context.Context, m *model.TypeModel, root string) (map[string]any, error) {
	record, ok := m.Record(root)
	if !ok {
		return nil, spec.NewError(spec.KindUnknownRoot, "", "unknown root type %q", root)
	}
	value, err := b.record(ctx, m, record, root, 0)
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *Builder) record(ctx context.Context, m *model.TypeModel, record *model.RecordType, path string, depth int) (map[string]any, error) {
	if depth >= b.maxDepth {
		return nil, ErrDepthExceeded
	}

	out := make(map[string]any, len(record.Fields))
	for _, def := range record.Fields {
		fieldPath := path + "." + def.Name

		if def.Optional {
			provide, err := b.driver.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("Provide optional field %s?", fieldPath),
				Help:    def.Description,
			})
			if err != nil {
				return nil, err
			}
			if !provide {
				continue
			}
		}

		value, err := b.field(ctx, m, def, fieldPath, depth)
		if err != nil {
			return nil, err
		}
		out[def.Name] = value
	}
	return out, nil
}

func (b *Builder) field(ctx context.Context, m *model.TypeModel, def model.FieldDef, path string, depth int) (any, error) {
	if !def.Repeated {
		return b.element(ctx, m, def, path, depth)
	}

	items := make([]any, 0)
	for {
		message := fmt.Sprintf("Add an item to %s?", path)
		if len(items) > 0 {
			message = fmt.Sprintf("Add another item to %s? (%d so far)", path, len(items))
		}
		more, err := b.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: minItemsUnmet(def, len(items)),
			Help:    def.Description,
		})
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		item, err := b.element(ctx, m, def, fmt.Sprintf("%s[%d]", path, len(items)), depth)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func minItemsUnmet(def model.FieldDef, have int) bool {
	return def.Constraints.MinItems != nil && have < *def.Constraints.MinItems
}

func (b *Builder) element(ctx context.Context, m *model.TypeModel, def model.FieldDef, path string, depth int) (any, error) {
	if def.Elem.IsRecord() {
		record, ok := m.Record(def.Elem.Ref)
		if !ok {
			return nil, fmt.Errorf("prompt: model references unknown record %q", def.Elem.Ref)
		}
		return b.record(ctx, m, record, path, depth+1)
	}

	if len(def.Enum) > 0 {
		return b.selectEnum(ctx, def, path)
	}

	switch def.Elem.Kind {
	case model.KindBoolean:
		return b.driver.Confirm(ctx, ConfirmConfig{
			Message: path + "?",
			Help:    def.Description,
		})
	case model.KindInteger:
		text, err := b.input(ctx, def, path, validateInteger)
		if err != nil {
			return nil, err
		}
		return strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	case model.KindNumber:
		text, err := b.input(ctx, def, path, validateNumber)
		if err != nil {
			return nil, err
		}
		return strconv.ParseFloat(strings.TrimSpace(text), 64)
	default:
		return b.input(ctx, def, path, nil)
	}
}

func (b *Builder) input(ctx context.Context, def model.FieldDef, path string, validator func(string) error) (string, error) {
	return b.driver.Input(ctx, InputConfig{
		Message:   path + ":",
		Help:      def.Description,
		Validator: validator,
	})
}

func (b *Builder) selectEnum(ctx context.Context, def model.FieldDef, path string) (any, error) {
	options := make([]string, 0, len(def.Enum))
	for _, value := range def.Enum {
		options = append(options, fmt.Sprintf("%v", value))
	}
	idx, err := b.driver.Select(ctx, SelectConfig{
		Message: path + ":",
		Options: options,
		Help:    def.Description,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(def.Enum) {
		return nil, errors.New("prompt: selection out of range")
	}
	return def.Enum[idx], nil
}

func validateInteger(text string) error {
	if _, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64); err != nil {
		return errors.New("enter a whole number")
	}
	return nil
}

func validateNumber(text string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err != nil {
		return errors.New("enter a number")
	}
	return nil
}
