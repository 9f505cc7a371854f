package partition

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timon-db/timon/internal/columnar"
	"github.com/timon-db/timon/internal/schema"
)

func TestInsert_HappyPath(t *testing.T) {
	dir := t.TempDir()
	doc := schema.Doc{
		"t": schema.FieldRule{Type: schema.TypeInt, Required: true},
		"v": schema.FieldRule{Type: schema.TypeFloat, Required: true},
	}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, Insert(dir, "m", doc, []map[string]any{
		{"t": 1, "v": 1.5},
		{"t": 2, "v": 2.5},
	}, now))

	rows, err := columnar.ReadAll(filepath.Join(dir, "m_2026-08-01.db"))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestInsert_UniqueFieldCollapsesToLatest(t *testing.T) {
	dir := t.TempDir()
	doc := schema.Doc{
		"k": schema.FieldRule{Type: schema.TypeString, Required: true, Unique: true},
		"t": schema.FieldRule{Type: schema.TypeInt, Required: true},
		"v": schema.FieldRule{Type: schema.TypeFloat, Required: true},
	}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, Insert(dir, "m", doc, []map[string]any{{"k": "a", "t": 1, "v": 1.25}}, now))
	require.NoError(t, Insert(dir, "m", doc, []map[string]any{{"k": "a", "t": 2, "v": 9.9}}, now))

	rows, err := columnar.ReadAll(filepath.Join(dir, "m_2026-08-01.db"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0]["t"])
	assert.Equal(t, 9.9, rows[0]["v"])
}

func TestInsert_RejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	doc := schema.Doc{"t": schema.FieldRule{Type: schema.TypeInt}}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	err := Insert(dir, "m", doc, []map[string]any{{"t": 1, "extra": "nope"}}, now)
	assert.Error(t, err)
}
