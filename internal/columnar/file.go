package columnar

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// builder is the squirrel statement builder configured for SQLite's "?"
// bind variable style, matching the teacher's internal/storage usage.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

const schemaTableName = "__columns__"
const recordsTableName = "records"

// Write rewrites a partition file from scratch with the given records.
// fields is the full declared field set (including fields absent from
// every record, so the table always has every schema column). The file
// is self-describing: a sidecar __columns__ table records each column's
// inferred type so a later reader never needs the table's SchemaDoc.
//
// The new contents are built under a sibling temp path and renamed into
// place, so a crash or kill mid-write leaves the previous partition file
// intact rather than a half-written one.
func Write(path string, fields []string, records []map[string]any) error {
	tmpPath := fmt.Sprintf("%s.tmp-%s", path, uuid.NewString())
	if err := writeTo(tmpPath, fields, records); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("columnar: rename partition into place: %w", err)
	}
	return nil
}

func writeTo(path string, fields []string, records []map[string]any) error {
	normalized := make([]map[string]any, len(records))
	for i, r := range records {
		n, err := Normalize(r)
		if err != nil {
			return err
		}
		normalized[i] = n
	}

	cols, elems := InferColumns(normalized, fields)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("columnar: open partition: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("columnar: begin write: %w", err)
	}
	defer tx.Rollback()

	if err := createTables(tx, fields, cols); err != nil {
		return err
	}

	insert := builder.Insert(recordsTableName).Columns(fields...)
	for _, rec := range normalized {
		row, err := rowValues(rec, fields, cols, elems)
		if err != nil {
			return err
		}
		insert = insert.Values(row...)
	}
	if len(normalized) > 0 {
		if _, err := insert.RunWith(tx).Exec(); err != nil {
			return fmt.Errorf("columnar: insert records: %w", err)
		}
	}

	for field, t := range cols {
		elemType := ColNull
		if e, ok := elems[field]; ok {
			elemType = e
		}
		_, err := builder.Insert(schemaTableName).
			Columns("field", "col_type", "elem_type").
			Values(field, int(t), int(elemType)).
			RunWith(tx).Exec()
		if err != nil {
			return fmt.Errorf("columnar: record column schema: %w", err)
		}
	}

	return tx.Commit()
}

func createTables(tx *sql.Tx, fields []string, cols map[string]ColumnType) error {
	ddl := fmt.Sprintf(`CREATE TABLE %s (field TEXT PRIMARY KEY, col_type INTEGER NOT NULL, elem_type INTEGER NOT NULL)`, schemaTableName)
	if _, err := tx.Exec(ddl); err != nil {
		return fmt.Errorf("columnar: create schema table: %w", err)
	}

	colDefs := ""
	for i, f := range fields {
		if i > 0 {
			colDefs += ", "
		}
		colDefs += fmt.Sprintf("%q %s", f, cols[f].sqliteType())
	}
	recDDL := fmt.Sprintf("CREATE TABLE %s (%s)", recordsTableName, colDefs)
	if _, err := tx.Exec(recDDL); err != nil {
		return fmt.Errorf("columnar: create records table: %w", err)
	}
	return nil
}

func rowValues(rec map[string]any, fields []string, cols map[string]ColumnType, elems map[string]ColumnType) ([]any, error) {
	row := make([]any, len(fields))
	for i, f := range fields {
		v, ok := rec[f]
		if !ok {
			v = typedDefault(cols[f])
		}
		switch cols[f] {
		case ColInt64:
			row[i] = coerceInt(v)
		case ColFloat64:
			row[i] = coerceFloat(v)
		case ColBoolean:
			row[i] = coerceBool(v)
		case ColList:
			list, _ := v.([]any)
			encoded, err := json.Marshal(decodeList(list))
			if err != nil {
				return nil, fmt.Errorf("columnar: encode list field %q: %w", f, err)
			}
			row[i] = string(encoded)
		default:
			row[i] = coerceString(v)
		}
	}
	return row, nil
}

func coerceInt(v any) int64 {
	switch t := v.(type) {
	case jsonInt:
		return int64(t)
	case jsonFloat:
		return int64(t)
	default:
		return 0
	}
}

func coerceFloat(v any) float64 {
	switch t := v.(type) {
	case jsonFloat:
		return float64(t)
	case jsonInt:
		return float64(t)
	default:
		return 0
	}
}

func coerceBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case jsonInt:
		return fmt.Sprintf("%d", int64(t))
	case jsonFloat:
		return fmt.Sprintf("%v", float64(t))
	default:
		return fmt.Sprintf("%v", t)
	}
}

// decodeList unwraps jsonInt/jsonFloat wrappers back to native
// json.Marshal-friendly values before encoding a list column.
func decodeList(list []any) []any {
	out := make([]any, len(list))
	for i, v := range list {
		switch t := v.(type) {
		case jsonInt:
			out[i] = int64(t)
		case jsonFloat:
			out[i] = float64(t)
		default:
			out[i] = t
		}
	}
	return out
}
