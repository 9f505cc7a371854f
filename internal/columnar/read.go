package columnar

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// ReadAll opens a partition file read-only and returns every row as a
// JSON-ready record (native int64/float64/string/bool/[]any values, no
// jsonInt/jsonFloat wrappers), using only the file's own sidecar
// __columns__ table to interpret column storage classes — the file
// needs no external schema to be read back correctly.
func ReadAll(path string) ([]map[string]any, error) {
	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("columnar: open partition: %w", err)
	}
	defer db.Close()

	colTypes, elemTypes, err := readColumnSchema(db)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s", recordsTableName))
	if err != nil {
		return nil, fmt.Errorf("columnar: query records: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columnar: read column names: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		dest := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("columnar: scan row: %w", err)
		}

		rec := make(map[string]any, len(names))
		for i, name := range names {
			rec[name], err = decodeColumnValue(dest[i], colTypes[name], elemTypes[name])
			if err != nil {
				return nil, fmt.Errorf("columnar: decode column %q: %w", name, err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("columnar: iterate rows: %w", err)
	}
	return out, nil
}

func readColumnSchema(db *sql.DB) (map[string]ColumnType, map[string]ColumnType, error) {
	rows, err := builder.Select("field", "col_type", "elem_type").From(schemaTableName).RunWith(db).Query()
	if err != nil {
		return nil, nil, fmt.Errorf("columnar: read column schema: %w", err)
	}
	defer rows.Close()

	colTypes := make(map[string]ColumnType)
	elemTypes := make(map[string]ColumnType)
	for rows.Next() {
		var field string
		var colType, elemType int
		if err := rows.Scan(&field, &colType, &elemType); err != nil {
			return nil, nil, fmt.Errorf("columnar: scan column schema: %w", err)
		}
		colTypes[field] = ColumnType(colType)
		elemTypes[field] = ColumnType(elemType)
	}
	return colTypes, elemTypes, rows.Err()
}

func decodeColumnValue(raw any, colType, elemType ColumnType) (any, error) {
	if raw == nil {
		return typedZeroJSON(colType), nil
	}
	switch colType {
	case ColInt64:
		return toInt64(raw), nil
	case ColFloat64:
		return toFloat64(raw), nil
	case ColBoolean:
		return toInt64(raw) != 0, nil
	case ColList:
		text, _ := raw.(string)
		var list []any
		if text != "" {
			if err := json.Unmarshal([]byte(text), &list); err != nil {
				return nil, err
			}
		}
		_ = elemType
		return list, nil
	default:
		return toString(raw), nil
	}
}

func typedZeroJSON(t ColumnType) any {
	switch t {
	case ColInt64:
		return int64(0)
	case ColFloat64:
		return float64(0)
	case ColBoolean:
		return false
	case ColList:
		return []any{}
	default:
		return ""
	}
}

func toInt64(raw any) int64 {
	switch v := raw.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case []byte:
		var i int64
		fmt.Sscanf(string(v), "%d", &i)
		return i
	default:
		return 0
	}
}

func toFloat64(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case []byte:
		var f float64
		fmt.Sscanf(string(v), "%g", &f)
		return f
	default:
		return 0
	}
}

func toString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
