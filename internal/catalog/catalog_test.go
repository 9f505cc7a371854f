package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timon-db/timon/internal/schema"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	root := t.TempDir()
	c, err := Open(root)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpen_CreatesDataDirAndEmptyMetadata(t *testing.T) {
	root := t.TempDir()
	c, err := Open(root)
	require.NoError(t, err)
	defer c.Close()

	assert.DirExists(t, filepath.Join(root, "data"))
	assert.FileExists(t, filepath.Join(root, "metadata.json"))

	dbs, err := c.ListDatabases()
	require.NoError(t, err)
	assert.Empty(t, dbs)
}

func TestCreateDatabase_DuplicateFails(t *testing.T) {
	c := openTestCatalog(t)
	require.NoError(t, c.CreateDatabase("d"))
	err := c.CreateDatabase("d")
	assert.ErrorIs(t, err, ErrDatabaseExists)
}

func TestCreateDatabase_PreExistingDirectoryFails(t *testing.T) {
	c := openTestCatalog(t)

	// Simulate a directory left behind by a prior run that never reached
	// the catalog write (e.g. crashed between mkdir and persist).
	require.NoError(t, os.Mkdir(filepath.Join(dataDir(c.storageRoot), "d"), 0755))

	err := c.CreateDatabase("d")
	assert.ErrorIs(t, err, ErrDatabaseExists)

	dbs, err := c.ListDatabases()
	require.NoError(t, err)
	assert.Empty(t, dbs)
}

func TestCreateTable_RequiresKnownDatabase(t *testing.T) {
	c := openTestCatalog(t)
	doc := schema.Doc{"t": schema.FieldRule{Type: schema.TypeInt, Required: true}}
	err := c.CreateTable("missing", "m", doc)
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestCreateTable_RejectsMalformedSchema(t *testing.T) {
	c := openTestCatalog(t)
	require.NoError(t, c.CreateDatabase("d"))
	err := c.CreateTable("d", "m", schema.Doc{"t": schema.FieldRule{}})
	assert.Error(t, err)
}

func TestCreateTable_HappyPath(t *testing.T) {
	c := openTestCatalog(t)
	require.NoError(t, c.CreateDatabase("d"))
	doc := schema.Doc{
		"t": schema.FieldRule{Type: schema.TypeInt, Required: true},
		"v": schema.FieldRule{Type: schema.TypeFloat, Required: true},
	}
	require.NoError(t, c.CreateTable("d", "m", doc))

	tables, err := c.ListTables("d")
	require.NoError(t, err)
	assert.Equal(t, []string{"m"}, tables)

	table, err := c.GetTable("d", "m")
	require.NoError(t, err)
	assert.DirExists(t, table.Path)
	assert.Equal(t, doc, table.Schema)
}

func TestDeleteTable_RemovesDirectoryAndEntry(t *testing.T) {
	c := openTestCatalog(t)
	require.NoError(t, c.CreateDatabase("d"))
	doc := schema.Doc{"t": schema.FieldRule{Type: schema.TypeInt}}
	require.NoError(t, c.CreateTable("d", "m", doc))

	table, err := c.GetTable("d", "m")
	require.NoError(t, err)
	path := table.Path

	require.NoError(t, c.DeleteTable("d", "m"))
	assert.NoDirExists(t, path)

	_, err = c.GetTable("d", "m")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestDeleteDatabase_RemovesDataDirectory(t *testing.T) {
	c := openTestCatalog(t)
	require.NoError(t, c.CreateDatabase("d"))
	require.NoError(t, c.CreateTable("d", "m", schema.Doc{"t": schema.FieldRule{Type: schema.TypeInt}}))

	require.NoError(t, c.DeleteDatabase("d"))
	assert.NoDirExists(t, filepath.Join(dataDir(c.storageRoot), "d"))

	_, err := c.ListTables("d")
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestReload_SeesExternalWrites(t *testing.T) {
	root := t.TempDir()
	c1, err := Open(root)
	require.NoError(t, err)
	defer c1.Close()

	require.NoError(t, c1.CreateDatabase("d"))

	c2, err := Open(root)
	require.NoError(t, err)
	defer c2.Close()

	dbs, err := c2.ListDatabases()
	require.NoError(t, err)
	assert.Contains(t, dbs, "d")
}
