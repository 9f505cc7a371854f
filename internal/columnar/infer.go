// Package columnar implements the Codec Bridge: JSON record batches are
// converted to and from columnar SQLite partition files, with type
// inference and promotion across the record set.
package columnar

// ColumnType is a column's inferred storage class, following the
// promotion lattice Null ⊑ Int64, Float64, Utf8, Boolean, List<T> with
// the single promotion rule Int64 ⊔ Float64 = Float64.
type ColumnType int

const (
	ColNull ColumnType = iota
	ColInt64
	ColFloat64
	ColUtf8
	ColBoolean
	ColList
)

func (t ColumnType) String() string {
	switch t {
	case ColInt64:
		return "int64"
	case ColFloat64:
		return "float64"
	case ColUtf8:
		return "utf8"
	case ColBoolean:
		return "boolean"
	case ColList:
		return "list"
	default:
		return "null"
	}
}

// sqliteType maps a ColumnType to the SQLite storage class used for the
// records table's column definition.
func (t ColumnType) sqliteType() string {
	switch t {
	case ColInt64:
		return "INTEGER"
	case ColFloat64:
		return "REAL"
	case ColBoolean:
		return "INTEGER"
	case ColUtf8, ColList, ColNull:
		return "TEXT"
	default:
		return "TEXT"
	}
}

// valueType classifies one normalized JSON value (numbers arrive as
// jsonInt/jsonFloat from Normalize so int/float can be told apart).
func valueType(v any) ColumnType {
	switch val := v.(type) {
	case nil:
		return ColNull
	case jsonInt:
		return ColInt64
	case jsonFloat:
		return ColFloat64
	case string:
		return ColUtf8
	case bool:
		return ColBoolean
	case []any:
		return ColList
	default:
		_ = val
		return ColUtf8
	}
}

// promote merges two column types per the lattice. Null is absorbed by
// any other type. Int64/Float64 promote to Float64. Any other conflict
// (e.g. string seen after bool) defers to the most recently observed
// type — the documented last-seen-wins weakness.
func promote(current, next ColumnType) ColumnType {
	if next == ColNull {
		return current
	}
	if current == ColNull {
		return next
	}
	if current == next {
		return current
	}
	if (current == ColInt64 && next == ColFloat64) || (current == ColFloat64 && next == ColInt64) {
		return ColFloat64
	}
	return next
}

// InferColumns scans every record for the given field names and derives
// one ColumnType per field. Fields absent from a record do not
// contribute to inference (they receive a typed default at write time).
// For List fields, the element type is carried alongside via elemTypes.
func InferColumns(records []map[string]any, fields []string) (map[string]ColumnType, map[string]ColumnType) {
	cols := make(map[string]ColumnType, len(fields))
	elems := make(map[string]ColumnType, len(fields))
	for _, f := range fields {
		cols[f] = ColNull
	}

	for _, rec := range records {
		for _, f := range fields {
			v, ok := rec[f]
			if !ok {
				continue
			}
			cols[f] = promote(cols[f], valueType(v))
			if list, ok := v.([]any); ok && len(list) > 0 {
				if _, seen := elems[f]; !seen {
					elems[f] = valueType(list[0])
				}
			}
		}
	}

	// A field with no observations at all across the batch (every
	// record omitted it) still needs a concrete column type to create
	// the table; default to Utf8, the widest non-list type.
	for _, f := range fields {
		if cols[f] == ColNull {
			cols[f] = ColUtf8
		}
	}

	return cols, elems
}

// jsonInt and jsonFloat distinguish integral from fractional JSON
// numbers after decoding with json.Number, see decode.go.
type jsonInt int64
type jsonFloat float64
