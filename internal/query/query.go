// Package query implements the local Query Engine: it resolves the day
// partitions covering a date range, unions them inside the embedded SQL
// engine, and executes the caller's SQL against the union.
package query

import (
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/timon-db/timon/internal/partition"
)

// tableNameRe extracts the first bare or quoted identifier following
// FROM or JOIN, matching the convention used by the original engine to
// locate the table a query targets so its partitions can be resolved.
var tableNameRe = regexp.MustCompile("(?i)(?:FROM|JOIN)\\s+[`\"]?(\\w+)[`\"]?")

// ErrNoTableName is returned when the query's table cannot be identified.
var ErrNoTableName = fmt.Errorf("query: could not extract a single table name from SQL")

// ErrNoPartitions is returned when no partition files exist in range.
var ErrNoPartitions = fmt.Errorf("query: no partition files found for the requested range")

// ExtractTableName finds the table name a query targets. It fails if
// zero or more than one distinct name is found across FROM/JOIN clauses.
func ExtractTableName(sqlQuery string) (string, error) {
	matches := tableNameRe.FindAllStringSubmatch(sqlQuery, -1)
	if len(matches) == 0 {
		return "", ErrNoTableName
	}
	name := matches[0][1]
	for _, m := range matches[1:] {
		if m[1] != name {
			return "", ErrNoTableName
		}
	}
	return name, nil
}

// Run extracts the table name sqlQuery targets, resolves the partitions
// covering rng under tablePath, unions whichever files exist into a
// temporary combined_table, rewrites sqlQuery to reference it, executes,
// and returns the result rows.
func Run(tablePath string, rng partition.DateRange, gran partition.Granularity, sqlQuery string) ([]map[string]any, error) {
	tableName, err := ExtractTableName(sqlQuery)
	if err != nil {
		return nil, err
	}

	candidates := partition.GeneratePaths(tablePath, tableName, rng, gran, false)

	var existing []string
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil, ErrNoPartitions
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("query: open engine: %w", err)
	}
	defer db.Close()

	aliases := make([]string, len(existing))
	for i, path := range existing {
		alias := fmt.Sprintf("p%d", i)
		aliases[i] = alias
		attach := fmt.Sprintf("ATTACH DATABASE ? AS %s", alias)
		if _, err := db.Exec(attach, path); err != nil {
			return nil, fmt.Errorf("query: attach %s: %w", path, err)
		}
	}

	unionParts := make([]string, len(aliases))
	for i, alias := range aliases {
		unionParts[i] = fmt.Sprintf("SELECT * FROM %s.records", alias)
	}
	combineSQL := fmt.Sprintf("CREATE TEMP TABLE combined_table AS %s", strings.Join(unionParts, " UNION ALL "))
	if _, err := db.Exec(combineSQL); err != nil {
		return nil, fmt.Errorf("query: build combined table: %w", err)
	}

	rewritten := rewriteTableReference(sqlQuery, tableName, "combined_table")

	rows, err := db.Query(rewritten)
	if err != nil {
		return nil, fmt.Errorf("query: execute: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// rewriteTableReference swaps the original table identifier for
// combined_table, matching it as a whole word so that e.g. table name
// "m" does not clobber an unrelated identifier "metrics".
func rewriteTableReference(sqlQuery, tableName, replacement string) string {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(tableName) + `\b`)
	return re.ReplaceAllString(sqlQuery, replacement)
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query: read column names: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		dest := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("query: scan row: %w", err)
		}
		rec := make(map[string]any, len(names))
		for i, name := range names {
			rec[name] = normalizeScanned(dest[i])
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func normalizeScanned(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
