package schema

// Test Plan for schema:
// - Doc.Validate accepts every known FieldType and rejects unknown/empty ones
// - ValidateRecord rejects a record carrying a field absent from the schema
// - ValidateRecord rejects a record missing a required field
// - ValidateRecord accepts a record satisfying the schema
// - ValidateRecord rejects a value whose runtime type doesn't match the rule
// - ValidateRecords stops at (and names) the first invalid record in a batch
// - UniqueFields returns exactly the fields marked unique

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoc_Validate(t *testing.T) {
	t.Parallel()

	doc := Doc{
		"a": FieldRule{Type: TypeInt},
		"b": FieldRule{Type: TypeFloat},
		"c": FieldRule{Type: TypeIntFloat},
		"d": FieldRule{Type: TypeString},
		"e": FieldRule{Type: TypeBool},
		"f": FieldRule{Type: TypeArray},
	}
	assert.NoError(t, doc.Validate())
}

func TestDoc_Validate_RejectsUnknownType(t *testing.T) {
	t.Parallel()

	doc := Doc{"x": FieldRule{Type: "timestamp"}}
	err := doc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestDoc_Validate_RejectsMissingType(t *testing.T) {
	t.Parallel()

	doc := Doc{"x": FieldRule{}}
	err := doc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing type")
}

func TestValidateRecord_RejectsUnknownField(t *testing.T) {
	t.Parallel()

	doc := Doc{"t": FieldRule{Type: TypeInt, Required: true}}
	err := ValidateRecord(doc, map[string]any{"unknown": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"unknown"`)
}

func TestValidateRecord_RejectsMissingRequiredField(t *testing.T) {
	t.Parallel()

	doc := Doc{
		"t": FieldRule{Type: TypeInt, Required: true},
		"v": FieldRule{Type: TypeFloat, Required: true},
	}
	err := ValidateRecord(doc, map[string]any{"t": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"v"`)
}

func TestValidateRecord_AcceptsValidRecord(t *testing.T) {
	t.Parallel()

	doc := Doc{
		"t": FieldRule{Type: TypeInt, Required: true},
		"v": FieldRule{Type: TypeFloat},
	}
	assert.NoError(t, ValidateRecord(doc, map[string]any{"t": 1}))
	assert.NoError(t, ValidateRecord(doc, map[string]any{"t": 1, "v": 2.5}))
}

func TestValidateRecord_RejectsTypeMismatch(t *testing.T) {
	t.Parallel()

	doc := Doc{"t": FieldRule{Type: TypeInt, Required: true}}
	err := ValidateRecord(doc, map[string]any{"t": "oops"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"t"`)
}

func TestValidateRecord_AcceptsEitherBranchOfUnionType(t *testing.T) {
	t.Parallel()

	doc := Doc{"x": FieldRule{Type: TypeIntFloat, Required: true}}
	assert.NoError(t, ValidateRecord(doc, map[string]any{"x": 1}))
	assert.NoError(t, ValidateRecord(doc, map[string]any{"x": 1.5}))
}

func TestValidateRecords_StopsAtFirstInvalid(t *testing.T) {
	t.Parallel()

	doc := Doc{"t": FieldRule{Type: TypeInt, Required: true}}
	records := []map[string]any{
		{"t": 1},
		{"t": 2, "bogus": true},
		{"t": 3},
	}
	err := ValidateRecords(doc, records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
}

func TestUniqueFields(t *testing.T) {
	t.Parallel()

	doc := Doc{
		"k": FieldRule{Type: TypeString, Unique: true},
		"t": FieldRule{Type: TypeInt},
		"v": FieldRule{Type: TypeFloat, Unique: true},
	}
	unique := doc.UniqueFields()
	assert.ElementsMatch(t, []string{"k", "v"}, unique)
}
