// Package catalog manages the Timon metadata document: databases, tables,
// and their schemas, persisted as a single JSON file under the storage
// root and mutated under a strict reload-before-mutate discipline.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/timon-db/timon/internal/schema"
)

const metadataFileName = "metadata.json"

// Table is one table's catalog record.
type Table struct {
	Path   string     `json:"path"`
	Schema schema.Doc `json:"schema"`
}

// Database is a named grouping of tables.
type Database struct {
	Tables map[string]*Table `json:"tables"`
}

// Metadata is the full catalog document.
type Metadata struct {
	Databases map[string]*Database `json:"databases"`
}

func newEmptyMetadata() *Metadata {
	return &Metadata{Databases: make(map[string]*Database)}
}

func metadataPath(storageRoot string) string {
	return filepath.Join(storageRoot, metadataFileName)
}

// dataDir returns the directory under which day-partition files live.
func dataDir(storageRoot string) string {
	return filepath.Join(storageRoot, "data")
}

// readMetadata loads metadata.json from storageRoot. A missing file
// yields empty metadata (first-run case); a corrupt file is a hard error,
// since silently discarding an existing catalog would lose every
// database/table registration.
func readMetadata(storageRoot string) (*Metadata, error) {
	data, err := os.ReadFile(metadataPath(storageRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return newEmptyMetadata(), nil
		}
		return nil, fmt.Errorf("catalog: read metadata: %w", err)
	}
	if len(data) == 0 {
		return newEmptyMetadata(), nil
	}

	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog: parse metadata: %w", err)
	}
	if m.Databases == nil {
		m.Databases = make(map[string]*Database)
	}
	return &m, nil
}

// writeMetadata persists metadata using the temp-file-then-rename
// discipline, so a crash mid-write never leaves a truncated catalog.
func writeMetadata(storageRoot string, m *Metadata) error {
	if err := os.MkdirAll(storageRoot, 0755); err != nil {
		return fmt.Errorf("catalog: create storage root: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: marshal metadata: %w", err)
	}

	target := metadataPath(storageRoot)
	tmp := fmt.Sprintf("%s.tmp-%s", target, randSuffix())
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("catalog: write temp metadata: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("catalog: rename metadata: %w", err)
	}
	return nil
}
