package aggregate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timon-db/timon/internal/columnar"
)

func writeDay(t *testing.T, dir, table, day string, rows []map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, table+"_"+day+".db")
	require.NoError(t, columnar.Write(path, []string{"t"}, rows))
	return path
}

func TestMonthlyGroups_GroupsByMonth(t *testing.T) {
	dir := t.TempDir()
	writeDay(t, dir, "m", "2026-07-30", []map[string]any{{"t": 1}})
	writeDay(t, dir, "m", "2026-07-31", []map[string]any{{"t": 2}})
	writeDay(t, dir, "m", "2026-08-01", []map[string]any{{"t": 3}})

	groups, err := MonthlyGroups(dir, "m")
	require.NoError(t, err)
	assert.Len(t, groups["2026-07"], 2)
	assert.Len(t, groups["2026-08"], 1)
}

func TestMerge_SingleFileCopies(t *testing.T) {
	dir := t.TempDir()
	writeDay(t, dir, "m", "2026-08-01", []map[string]any{{"t": 1}})

	target, err := Merge(dir, "m", "2026-08", []string{filepath.Join(dir, "m_2026-08-01.db")})
	require.NoError(t, err)

	rows, err := columnar.ReadAll(target)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMerge_MultiFileUnions(t *testing.T) {
	dir := t.TempDir()
	f1 := writeDay(t, dir, "m", "2026-07-30", []map[string]any{{"t": 1}})
	f2 := writeDay(t, dir, "m", "2026-07-31", []map[string]any{{"t": 2}})

	target, err := Merge(dir, "m", "2026-07", []string{f1, f2})
	require.NoError(t, err)

	rows, err := columnar.ReadAll(target)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestEvict_RemovesPastMonthsOnly(t *testing.T) {
	dir := t.TempDir()
	writeDay(t, dir, "m", "2026-07-30", []map[string]any{{"t": 1}})
	writeDay(t, dir, "m", "2026-08-01", []map[string]any{{"t": 2}})

	groups, err := MonthlyGroups(dir, "m")
	require.NoError(t, err)

	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, Evict(dir, "m", groups, now))

	_, err = os.Stat(filepath.Join(dir, "m_2026-07-30.db"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "m_2026-08-01.db"))
	assert.NoError(t, err)
}
