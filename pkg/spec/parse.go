package spec

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// supportedSpecificationKeys guards against typos in authored documents; an
// unrecognized key is a shape error rather than a silently dropped constraint.
var supportedSpecificationKeys = map[string]struct{}{
	"dim":              {},
	"dtype":            {},
	"allowed_values":   {},
	"optional":         {},
	"description":      {},
	"pattern":          {},
	"format":           {},
	"minimum":          {},
	"maximum":          {},
	"exclusiveMinimum": {},
	"exclusiveMaximum": {},
	"multipleOf":       {},
	"minItems":         {},
	"maxItems":         {},
}

// Parse validates a raw, already-decoded specification value and returns the
// typed ModelSpec. Checks run fail-fast in a fixed order: structural shape,
// duplicate field names, duplicate type names, shallow dtype existence, and
// constraint compatibility. The first violation is reported as a *Error with
// the offending path.
func Parse(raw any) (ModelSpec, error) {
	ms, err := decodeModelSpec(raw)
	if err != nil {
		return ModelSpec{}, err
	}
	if err := checkDuplicateFieldNames(ms); err != nil {
		return ModelSpec{}, err
	}
	if err := checkDuplicateTypeNames(ms); err != nil {
		return ModelSpec{}, err
	}
	if err := checkDeclaredDtypes(ms); err != nil {
		return ModelSpec{}, err
	}
	if err := checkConstraints(ms); err != nil {
		return ModelSpec{}, err
	}
	return ms, nil
}

// ParseDocument decodes a loaded document and validates it.
func ParseDocument(doc Document) (ModelSpec, error) {
	value, err := doc.Decode()
	if err != nil {
		return ModelSpec{}, NewError(KindMalformedShape, "", "%v", err)
	}
	return Parse(value)
}

// ---------------------------------------------------------------------------
// structural decoding (check 1)
// ---------------------------------------------------------------------------

func decodeModelSpec(raw any) (ModelSpec, error) {
	payload, ok := asMap(raw)
	if !ok {
		return ModelSpec{}, NewError(KindMalformedShape, "", "specification must be an object")
	}

	ms := ModelSpec{}

	name, err := requireString(payload, "name", "name")
	if err != nil {
		return ModelSpec{}, err
	}
	ms.Name = name

	fieldsRaw, ok := payload["fields"]
	if !ok {
		return ModelSpec{}, NewError(KindMalformedShape, "fields", "fields is required")
	}
	fields, err := decodeFields(fieldsRaw, "fields")
	if err != nil {
		return ModelSpec{}, err
	}
	ms.Fields = fields

	if customRaw, ok := payload["custom_dtypes"]; ok && customRaw != nil {
		list, ok := asSlice(customRaw)
		if !ok {
			return ModelSpec{}, NewError(KindMalformedShape, "custom_dtypes", "custom_dtypes must be a sequence")
		}
		customs := make([]CustomType, 0, len(list))
		for idx, entry := range list {
			path := fmt.Sprintf("custom_dtypes[%d]", idx)
			custom, err := decodeCustomType(entry, path)
			if err != nil {
				return ModelSpec{}, err
			}
			customs = append(customs, custom)
		}
		ms.CustomDtypes = customs
	}

	return ms, nil
}

func decodeCustomType(raw any, path string) (CustomType, error) {
	payload, ok := asMap(raw)
	if !ok {
		return CustomType{}, NewError(KindMalformedShape, path, "custom dtype must be an object")
	}

	name, err := requireString(payload, "name", path)
	if err != nil {
		return CustomType{}, err
	}

	fieldsRaw, ok := payload["fields"]
	if !ok {
		return CustomType{}, NewError(KindMalformedShape, path, "fields is required")
	}
	fields, err := decodeFields(fieldsRaw, path+".fields")
	if err != nil {
		return CustomType{}, err
	}

	return CustomType{Name: name, Fields: fields}, nil
}

func decodeFields(raw any, path string) ([]Field, error) {
	list, ok := asSlice(raw)
	if !ok {
		return nil, NewError(KindMalformedShape, path, "fields must be a sequence")
	}
	fields := make([]Field, 0, len(list))
	for idx, entry := range list {
		fieldPath := fmt.Sprintf("%s[%d]", path, idx)
		field, err := decodeField(entry, fieldPath)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func decodeField(raw any, path string) (Field, error) {
	payload, ok := asMap(raw)
	if !ok {
		return Field{}, NewError(KindMalformedShape, path, "field must be an object")
	}

	name, err := requireString(payload, "name", path)
	if err != nil {
		return Field{}, err
	}

	specRaw, ok := payload["specification"]
	if !ok {
		return Field{}, NewError(KindMalformedShape, path, "specification is required")
	}
	fieldSpec, err := decodeFieldSpec(specRaw, path+".specification")
	if err != nil {
		return Field{}, err
	}

	return Field{Name: name, Specification: fieldSpec}, nil
}

func decodeFieldSpec(raw any, path string) (FieldSpec, error) {
	payload, ok := asMap(raw)
	if !ok {
		return FieldSpec{}, NewError(KindMalformedShape, path, "specification must be an object")
	}

	for key := range payload {
		if _, ok := supportedSpecificationKeys[key]; !ok {
			return FieldSpec{}, NewError(KindMalformedShape, path+"."+key, "unsupported specification key %q", key)
		}
	}

	fs := FieldSpec{Dtype: string(PrimitiveString)}

	if dimRaw, ok := payload["dim"]; ok {
		dim, ok := asInt(dimRaw)
		if !ok || (dim != 0 && dim != 1) {
			return FieldSpec{}, NewError(KindMalformedShape, path+".dim", "dim must be the integer 0 or 1")
		}
		fs.Dim = dim
	}

	if dtypeRaw, ok := payload["dtype"]; ok {
		dtype, ok := dtypeRaw.(string)
		if !ok || strings.TrimSpace(dtype) == "" {
			return FieldSpec{}, NewError(KindMalformedShape, path+".dtype", "dtype must be a non-empty string")
		}
		fs.Dtype = strings.TrimSpace(dtype)
	}

	if valuesRaw, ok := payload["allowed_values"]; ok && valuesRaw != nil {
		list, ok := asSlice(valuesRaw)
		if !ok || len(list) == 0 {
			return FieldSpec{}, NewError(KindMalformedShape, path+".allowed_values", "allowed_values must be a non-empty sequence")
		}
		values := make([]string, 0, len(list))
		for idx, entry := range list {
			value, ok := entry.(string)
			if !ok {
				return FieldSpec{}, NewError(KindMalformedShape, fmt.Sprintf("%s.allowed_values[%d]", path, idx), "allowed_values entries must be strings")
			}
			values = append(values, value)
		}
		fs.AllowedValues = values
	}

	if optionalRaw, ok := payload["optional"]; ok {
		optional, ok := optionalRaw.(bool)
		if !ok {
			return FieldSpec{}, NewError(KindMalformedShape, path+".optional", "optional must be a boolean")
		}
		fs.Optional = optional
	}

	if descRaw, ok := payload["description"]; ok {
		desc, ok := descRaw.(string)
		if !ok {
			return FieldSpec{}, NewError(KindMalformedShape, path+".description", "description must be a string")
		}
		fs.Description = desc
	}

	if patternRaw, ok := payload["pattern"]; ok {
		pattern, ok := patternRaw.(string)
		if !ok || pattern == "" {
			return FieldSpec{}, NewError(KindMalformedShape, path+".pattern", "pattern must be a non-empty string")
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return FieldSpec{}, NewError(KindMalformedShape, path+".pattern", "pattern is not a valid regular expression: %v", err)
		}
		fs.Pattern = pattern
	}

	if formatRaw, ok := payload["format"]; ok {
		format, ok := formatRaw.(string)
		if !ok || !IsAllowedFormat(format) {
			return FieldSpec{}, NewError(KindMalformedShape, path+".format", "format must be one of %s", strings.Join(AllowedFormats(), ", "))
		}
		fs.Format = format
	}

	numeric := []struct {
		key    string
		target **float64
	}{
		{"minimum", &fs.Minimum},
		{"maximum", &fs.Maximum},
		{"exclusiveMinimum", &fs.ExclusiveMinimum},
		{"exclusiveMaximum", &fs.ExclusiveMaximum},
		{"multipleOf", &fs.MultipleOf},
	}
	for _, entry := range numeric {
		valueRaw, ok := payload[entry.key]
		if !ok {
			continue
		}
		value, ok := asFloat(valueRaw)
		if !ok {
			return FieldSpec{}, NewError(KindMalformedShape, path+"."+entry.key, "%s must be a number", entry.key)
		}
		if entry.key == "multipleOf" && value <= 0 {
			return FieldSpec{}, NewError(KindMalformedShape, path+".multipleOf", "multipleOf must be greater than zero")
		}
		*entry.target = &value
	}

	counts := []struct {
		key    string
		target **int
	}{
		{"minItems", &fs.MinItems},
		{"maxItems", &fs.MaxItems},
	}
	for _, entry := range counts {
		valueRaw, ok := payload[entry.key]
		if !ok {
			continue
		}
		value, ok := asInt(valueRaw)
		if !ok || value < 0 {
			return FieldSpec{}, NewError(KindMalformedShape, path+"."+entry.key, "%s must be a non-negative integer", entry.key)
		}
		*entry.target = &value
	}

	return fs, nil
}

// ---------------------------------------------------------------------------
// duplicate names (checks 2 and 3)
// ---------------------------------------------------------------------------

func checkDuplicateFieldNames(ms ModelSpec) error {
	if err := duplicateFieldIn(ms.Fields, "fields"); err != nil {
		return err
	}
	for idx, custom := range ms.CustomDtypes {
		if err := duplicateFieldIn(custom.Fields, fmt.Sprintf("custom_dtypes[%d].fields", idx)); err != nil {
			return err
		}
	}
	return nil
}

func duplicateFieldIn(fields []Field, path string) error {
	seen := make(map[string]struct{}, len(fields))
	for idx, field := range fields {
		if _, ok := seen[field.Name]; ok {
			return NewError(KindDuplicateName, fmt.Sprintf("%s[%d]", path, idx), "duplicate field name %q", field.Name)
		}
		seen[field.Name] = struct{}{}
	}
	return nil
}

func checkDuplicateTypeNames(ms ModelSpec) error {
	if _, ok := PrimitiveFromName(ms.Name); ok {
		return NewError(KindDuplicateName, "name", "root name %q collides with a built-in dtype", ms.Name)
	}
	seen := map[string]struct{}{ms.Name: {}}
	for idx, custom := range ms.CustomDtypes {
		path := fmt.Sprintf("custom_dtypes[%d]", idx)
		if _, ok := PrimitiveFromName(custom.Name); ok {
			return NewError(KindDuplicateName, path, "custom dtype %q collides with a built-in dtype", custom.Name)
		}
		if custom.Name == ms.Name {
			return NewError(KindDuplicateName, path, "custom dtype %q collides with the root name", custom.Name)
		}
		if _, ok := seen[custom.Name]; ok {
			return NewError(KindDuplicateName, path, "duplicate custom dtype %q", custom.Name)
		}
		seen[custom.Name] = struct{}{}
	}
	return nil
}

// ---------------------------------------------------------------------------
// shallow dtype existence (check 4)
// ---------------------------------------------------------------------------

func checkDeclaredDtypes(ms ModelSpec) error {
	declared := make(map[string]struct{}, len(ms.CustomDtypes))
	for _, custom := range ms.CustomDtypes {
		declared[custom.Name] = struct{}{}
	}

	check := func(field Field, path string) error {
		dtype := field.Specification.Dtype
		if _, ok := PrimitiveFromName(dtype); ok {
			return nil
		}
		if _, ok := declared[dtype]; ok {
			return nil
		}
		return NewError(KindUnknownType, path, "unknown dtype %q", dtype)
	}

	return eachField(ms, check)
}

// eachField visits every field in the specification in declaration order,
// stopping on the first error.
func eachField(ms ModelSpec, visit func(Field, string) error) error {
	for idx, field := range ms.Fields {
		if err := visit(field, fmt.Sprintf("fields[%d]", idx)); err != nil {
			return err
		}
	}
	for customIdx, custom := range ms.CustomDtypes {
		for idx, field := range custom.Fields {
			if err := visit(field, fmt.Sprintf("custom_dtypes[%d].fields[%d]", customIdx, idx)); err != nil {
				return err
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// constraint compatibility (check 5)
// ---------------------------------------------------------------------------

func checkConstraints(ms ModelSpec) error {
	return eachField(ms, checkFieldConstraints)
}

func checkFieldConstraints(field Field, path string) error {
	fs := field.Specification
	primitive, isPrimitive := PrimitiveFromName(fs.Dtype)

	if fs.Pattern != "" || fs.Format != "" {
		if !isPrimitive || primitive != PrimitiveString {
			return NewError(KindIncompatibleConstraint, path, "string constraints require dtype string, got %q", fs.Dtype)
		}
		if fs.Dim != 0 {
			return NewError(KindIncompatibleConstraint, path, "string constraints require a scalar field (dim=0)")
		}
	}

	if fs.Minimum != nil || fs.Maximum != nil || fs.ExclusiveMinimum != nil || fs.ExclusiveMaximum != nil || fs.MultipleOf != nil {
		if !isPrimitive || (primitive != PrimitiveInteger && primitive != PrimitiveNumber) {
			return NewError(KindIncompatibleConstraint, path, "numeric constraints require dtype integer or number, got %q", fs.Dtype)
		}
	}

	if fs.MinItems != nil || fs.MaxItems != nil {
		if fs.Dim != 1 {
			return NewError(KindIncompatibleConstraint, path, "minItems/maxItems require an array field (dim=1)")
		}
	}

	if len(fs.AllowedValues) > 0 {
		if !isPrimitive || primitive == PrimitiveBbox {
			return NewError(KindIncompatibleConstraint, path, "allowed_values require a non-bbox primitive dtype, got %q", fs.Dtype)
		}
		for _, value := range fs.AllowedValues {
			if _, err := CoerceEnumValue(primitive, value); err != nil {
				return NewError(KindIncompatibleConstraint, path, "allowed value %q is not a valid %s", value, primitive)
			}
		}
	}

	return nil
}

// CoerceEnumValue converts an allowed_values literal to the native
// representation of its primitive dtype. Values are authored as strings; for
// numeric and boolean dtypes they must parse to the target kind.
func CoerceEnumValue(primitive Primitive, value string) (any, error) {
	switch primitive {
	case PrimitiveString:
		return value, nil
	case PrimitiveInteger:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	case PrimitiveNumber:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	case PrimitiveBoolean:
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("dtype %q does not support enumerated values", primitive)
	}
}

// ---------------------------------------------------------------------------
// decoding helpers
// ---------------------------------------------------------------------------

func asMap(raw any) (map[string]any, bool) {
	payload, ok := raw.(map[string]any)
	return payload, ok
}

func asSlice(raw any) ([]any, bool) {
	list, ok := raw.([]any)
	return list, ok
}

func requireString(payload map[string]any, key, path string) (string, error) {
	raw, ok := payload[key]
	if !ok {
		return "", NewError(KindMalformedShape, path, "%s is required", key)
	}
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", NewError(KindMalformedShape, path, "%s must be a non-empty string", key)
	}
	return strings.TrimSpace(value), nil
}

// asInt accepts the integer representations produced by the JSON and YAML
// decoders. Floats are accepted only when integral.
func asInt(raw any) (int, bool) {
	switch value := raw.(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case uint64:
		return int(value), true
	case float64:
		if value != math.Trunc(value) {
			return 0, false
		}
		return int(value), true
	default:
		return 0, false
	}
}

func asFloat(raw any) (float64, bool) {
	switch value := raw.(type) {
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case uint64:
		return float64(value), true
	case float64:
		return value, true
	default:
		return 0, false
	}
}
