// Package schema defines the declarative shape of a Timon table: its
// SchemaDoc and the field rules that govern validation, column inference,
// and uniqueness.
package schema

import "fmt"

// FieldType is one of the source types a FieldRule may declare.
type FieldType string

const (
	TypeInt       FieldType = "int"
	TypeFloat     FieldType = "float"
	TypeIntFloat  FieldType = "int|float"
	TypeString    FieldType = "string"
	TypeBool      FieldType = "bool"
	TypeArray     FieldType = "array"
)

// FieldRule describes the accepted type and constraints for one field.
type FieldRule struct {
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
	Unique   bool      `json:"unique,omitempty"`
}

// Doc is a SchemaDoc: a mapping from field name to its FieldRule.
type Doc map[string]FieldRule

// Validate checks structural well-formedness: every field has a known
// type. Missing type is a schema error at table-creation time.
func (d Doc) Validate() error {
	for name, rule := range d {
		switch rule.Type {
		case TypeInt, TypeFloat, TypeIntFloat, TypeString, TypeBool, TypeArray:
		case "":
			return fmt.Errorf("schema: field %q missing type", name)
		default:
			return fmt.Errorf("schema: field %q has unknown type %q", name, rule.Type)
		}
	}
	return nil
}

// UniqueFields returns the set of field names marked unique, in no
// particular order (Go map iteration is not ordered, so callers that
// need deterministic key construction should sort this slice).
func (d Doc) UniqueFields() []string {
	var fields []string
	for name, rule := range d {
		if rule.Unique {
			fields = append(fields, name)
		}
	}
	return fields
}
