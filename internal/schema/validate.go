package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ValidateRecord checks one JSON record against a SchemaDoc:
//  1. every key in record must be declared in the schema (unknown fields fail);
//  2. every field marked required must be present;
//  3. every present field's runtime type must be one of the rule's
//     `|`-separated accepted types.
func ValidateRecord(doc Doc, record map[string]any) error {
	for key, value := range record {
		rule, ok := doc[key]
		if !ok {
			return fmt.Errorf("schema: unknown field %q", key)
		}
		actual, ok := runtimeType(value)
		if !ok {
			return fmt.Errorf("schema: field %q has unrecognized runtime type %T", key, value)
		}
		if !acceptsType(rule.Type, actual) {
			return fmt.Errorf("schema: field %q expected type %q, got %q", key, rule.Type, actual)
		}
	}
	for name, rule := range doc {
		if !rule.Required {
			continue
		}
		if _, ok := record[name]; !ok {
			return fmt.Errorf("schema: missing required field %q", name)
		}
	}
	return nil
}

// ValidateRecords validates a batch, stopping at the first invalid record.
func ValidateRecords(doc Doc, records []map[string]any) error {
	for i, r := range records {
		if err := ValidateRecord(doc, r); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// acceptsType reports whether actual satisfies one of rule's
// `|`-separated accepted types, e.g. rule "int|float" accepts both
// TypeInt and TypeFloat.
func acceptsType(rule, actual FieldType) bool {
	for _, part := range strings.Split(string(rule), "|") {
		if FieldType(part) == actual {
			return true
		}
	}
	return false
}

// runtimeType classifies a decoded JSON value: a number with a
// fractional component is TypeFloat, an integral number is TypeInt,
// matching the distinction original_source draws between int and float
// at validation time. Values are re-encoded through encoding/json with
// UseNumber so this works the same whether v arrived as a native Go
// int/float (test literals) or as the float64 a plain JSON decode
// produces.
func runtimeType(v any) (FieldType, bool) {
	switch v.(type) {
	case bool:
		return TypeBool, true
	case string:
		return TypeString, true
	case []any:
		return TypeArray, true
	}
	return numericType(v)
}

func numericType(v any) (FieldType, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var num json.Number
	if err := dec.Decode(&num); err != nil {
		return "", false
	}
	if _, err := num.Int64(); err == nil {
		return TypeInt, true
	}
	if _, err := num.Float64(); err == nil {
		return TypeFloat, true
	}
	return "", false
}
