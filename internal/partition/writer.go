package partition

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"github.com/timon-db/timon/internal/columnar"
	"github.com/timon-db/timon/internal/schema"
)

// Insert appends records to the day partition for tableName under
// tablePath, dated now's UTC calendar day. It reloads any existing
// partition file, unions it with the new records, collapses duplicates
// per the SchemaDoc's unique fields (most recent insertion wins), and
// rewrites the file atomically. A per-file advisory lock serializes
// concurrent writers within this process and any cooperating external
// process.
func Insert(tablePath, tableName string, doc schema.Doc, records []map[string]any, now time.Time) error {
	if err := schema.ValidateRecords(doc, records); err != nil {
		return err
	}

	fields := sortedFields(doc)
	target := filepath.Join(tablePath, fmt.Sprintf("%s_%s.db", tableName, now.UTC().Format("2006-01-02")))

	lock := flock.New(target + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("partition: acquire lock: %w", err)
	}
	defer lock.Unlock()

	existing, err := readExisting(target)
	if err != nil {
		return err
	}

	merged := append(existing, records...)
	merged = dedupe(merged, doc.UniqueFields())

	if err := columnar.Write(target, fields, merged); err != nil {
		return err
	}
	return nil
}

func sortedFields(doc schema.Doc) []string {
	fields := make([]string, 0, len(doc))
	for f := range doc {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func readExisting(path string) ([]map[string]any, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	rows, err := columnar.ReadAll(path)
	if err != nil {
		return nil, fmt.Errorf("partition: read existing partition: %w", err)
	}
	return rows, nil
}

// dedupe collapses records sharing the same unique-key tuple, keeping
// the last occurrence (most recent insertion wins). The key is the
// "-"-joined string form of each unique field's value, sorted fields
// for determinism. Records are otherwise left in insertion order.
func dedupe(records []map[string]any, uniqueFields []string) []map[string]any {
	if len(uniqueFields) == 0 {
		return records
	}
	sort.Strings(uniqueFields)

	lastIndex := make(map[string]int)
	order := make([]string, 0, len(records))
	for i, rec := range records {
		key := uniqueKey(rec, uniqueFields)
		if _, seen := lastIndex[key]; !seen {
			order = append(order, key)
		}
		lastIndex[key] = i
	}

	out := make([]map[string]any, 0, len(order))
	for _, key := range order {
		out = append(out, records[lastIndex[key]])
	}
	return out
}

func uniqueKey(rec map[string]any, fields []string) string {
	key := ""
	for i, f := range fields {
		if i > 0 {
			key += "-"
		}
		key += fmt.Sprintf("%v", rec[f])
	}
	return key
}
