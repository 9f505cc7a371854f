// Package aggregate implements the Monthly Aggregator: it groups day
// partitions by calendar month, merges each month into a single file,
// and evicts day files and local aggregates once their month has passed.
package aggregate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/gobwas/glob"

	"github.com/timon-db/timon/internal/columnar"
)

// Reporter receives progress callbacks while aggregation runs. A nil
// Reporter means no progress is reported.
type Reporter interface {
	OnMonthStart(month string, fileCount int)
	OnMonthComplete(month string)
}

var dayFileRe = regexp.MustCompile(`_(\d{4}-\d{2})-\d{2}\.db$`)

// MonthlyGroups lists a table directory and groups its day-partition
// files by YYYY-MM.
func MonthlyGroups(tableDir, tableName string) (map[string][]string, error) {
	pattern := glob.MustCompile(fmt.Sprintf("%s_*.db", tableName))

	entries, err := os.ReadDir(tableDir)
	if err != nil {
		return nil, fmt.Errorf("aggregate: list table directory: %w", err)
	}

	groups := make(map[string][]string)
	for _, e := range entries {
		if e.IsDir() || !pattern.Match(e.Name()) {
			continue
		}
		m := dayFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		month := m[1]
		groups[month] = append(groups[month], filepath.Join(tableDir, e.Name()))
	}
	for _, files := range groups {
		sort.Strings(files)
	}
	return groups, nil
}

// Merge writes the single merged monthly file for one group: a straight
// copy when there is exactly one day file, otherwise a union of every
// day file's rows.
func Merge(tableDir, tableName, month string, dayFiles []string) (string, error) {
	target := filepath.Join(tableDir, fmt.Sprintf("%s_%s.db", tableName, month))

	if len(dayFiles) == 1 {
		if err := copyFile(dayFiles[0], target); err != nil {
			return "", fmt.Errorf("aggregate: copy single-day month: %w", err)
		}
		return target, nil
	}

	var fields []string
	var merged []map[string]any
	for _, f := range dayFiles {
		rows, err := columnar.ReadAll(f)
		if err != nil {
			return "", fmt.Errorf("aggregate: read %s: %w", f, err)
		}
		if fields == nil {
			fields = fieldNames(rows)
		}
		merged = append(merged, rows...)
	}
	if err := columnar.Write(target, fields, merged); err != nil {
		return "", fmt.Errorf("aggregate: write merged month: %w", err)
	}
	return target, nil
}

func fieldNames(rows []map[string]any) []string {
	if len(rows) == 0 {
		return nil
	}
	names := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

// Evict removes day files and their local monthly aggregate for any
// month strictly before the current YYYY-MM. The current month's day
// files are retained regardless of whether they have been merged.
func Evict(tableDir, tableName string, groups map[string][]string, now time.Time) error {
	currentMonth := now.UTC().Format("2006-01")

	for month, files := range groups {
		if month >= currentMonth {
			continue
		}
		for _, f := range files {
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("aggregate: evict day file %s: %w", f, err)
			}
		}
		aggregatePath := filepath.Join(tableDir, fmt.Sprintf("%s_%s.db", tableName, month))
		if err := os.Remove(aggregatePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("aggregate: evict monthly aggregate %s: %w", aggregatePath, err)
		}
	}
	return nil
}
