package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/timon-db/timon/internal/schema"
)

// Catalog is the handle to one storage root's metadata document. Every
// mutating method reloads, mutates, and persists metadata as one
// sequence, but Catalog takes no lock, within or across processes:
// concurrent mutating calls race and the last write wins (see
// internal/partition for the per-partition-file advisory locks).
type Catalog struct {
	storageRoot string
	cache       *metadataCache
}

// Open initializes a storage root (creating the root and its data
// directory if absent) and returns a Catalog bound to it.
func Open(storageRoot string) (*Catalog, error) {
	if err := os.MkdirAll(dataDir(storageRoot), 0755); err != nil {
		return nil, fmt.Errorf("catalog: init storage root: %w", err)
	}
	if _, err := os.Stat(metadataPath(storageRoot)); os.IsNotExist(err) {
		if err := writeMetadata(storageRoot, newEmptyMetadata()); err != nil {
			return nil, err
		}
	}

	cache, err := newMetadataCache(storageRoot)
	if err != nil {
		return nil, err
	}

	return &Catalog{storageRoot: storageRoot, cache: cache}, nil
}

// Close releases the catalog's filesystem watcher and cache.
func (c *Catalog) Close() error {
	c.cache.close()
	return nil
}

// StorageRoot returns the root directory this catalog manages.
func (c *Catalog) StorageRoot() string {
	return c.storageRoot
}

// reload always reads from disk, bypassing the cache. Every mutating
// operation calls this, never the cached read path, so writers never
// act on stale state.
func (c *Catalog) reload() (*Metadata, error) {
	return readMetadata(c.storageRoot)
}

// readCached serves from the in-process cache when present, falling back
// to disk and populating the cache on a miss. Used only by read-only
// lookups (List/Get), never by mutating operations.
func (c *Catalog) readCached() (*Metadata, error) {
	if m, ok := c.cache.get(); ok {
		return m, nil
	}
	m, err := c.reload()
	if err != nil {
		return nil, err
	}
	c.cache.set(m)
	return m, nil
}

func (c *Catalog) persist(m *Metadata) error {
	if err := writeMetadata(c.storageRoot, m); err != nil {
		return err
	}
	c.cache.invalidate()
	return nil
}

// CreateDatabase registers a new logical database and creates its data
// directory. Fails if the catalog already has an entry by this name, or
// if the directory already exists on disk (e.g. left behind by a prior
// run that never reached the catalog write).
func (c *Catalog) CreateDatabase(name string) error {
	m, err := c.reload()
	if err != nil {
		return err
	}
	if _, exists := m.Databases[name]; exists {
		return fmt.Errorf("%w: %s", ErrDatabaseExists, name)
	}
	if err := os.Mkdir(filepath.Join(dataDir(c.storageRoot), name), 0755); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrDatabaseExists, name)
		}
		return fmt.Errorf("catalog: create database directory: %w", err)
	}
	m.Databases[name] = &Database{Tables: make(map[string]*Table)}
	return c.persist(m)
}

// DeleteDatabase removes a database's catalog entry and its on-disk data
// directory.
func (c *Catalog) DeleteDatabase(name string) error {
	m, err := c.reload()
	if err != nil {
		return err
	}
	if _, exists := m.Databases[name]; !exists {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}
	delete(m.Databases, name)
	if err := os.RemoveAll(filepath.Join(dataDir(c.storageRoot), name)); err != nil {
		return fmt.Errorf("catalog: remove database directory: %w", err)
	}
	return c.persist(m)
}

// ListDatabases returns every registered database name.
func (c *Catalog) ListDatabases() ([]string, error) {
	m, err := c.readCached()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m.Databases))
	for name := range m.Databases {
		names = append(names, name)
	}
	return names, nil
}

// CreateTable validates the schema, creates the table's data directory,
// and registers it under db. Fails if db is unknown, the table name is
// taken, or the schema is malformed.
func (c *Catalog) CreateTable(db, name string, doc schema.Doc) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	m, err := c.reload()
	if err != nil {
		return err
	}
	database, ok := m.Databases[db]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, db)
	}
	if _, exists := database.Tables[name]; exists {
		return fmt.Errorf("%w: %s/%s", ErrTableExists, db, name)
	}

	tablePath := filepath.Join(dataDir(c.storageRoot), db, name)
	if err := os.MkdirAll(tablePath, 0755); err != nil {
		return fmt.Errorf("catalog: create table directory: %w", err)
	}

	database.Tables[name] = &Table{Path: tablePath, Schema: doc}
	return c.persist(m)
}

// DeleteTable removes a table's catalog entry and its partition files.
func (c *Catalog) DeleteTable(db, name string) error {
	m, err := c.reload()
	if err != nil {
		return err
	}
	database, ok := m.Databases[db]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, db)
	}
	table, ok := database.Tables[name]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrTableNotFound, db, name)
	}
	if err := os.RemoveAll(table.Path); err != nil {
		return fmt.Errorf("catalog: remove table directory: %w", err)
	}
	delete(database.Tables, name)
	return c.persist(m)
}

// ListTables returns every table name registered under db.
func (c *Catalog) ListTables(db string) ([]string, error) {
	m, err := c.readCached()
	if err != nil {
		return nil, err
	}
	database, ok := m.Databases[db]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, db)
	}
	names := make([]string, 0, len(database.Tables))
	for name := range database.Tables {
		names = append(names, name)
	}
	return names, nil
}

// GetTable returns the catalog record for one table.
func (c *Catalog) GetTable(db, name string) (*Table, error) {
	m, err := c.readCached()
	if err != nil {
		return nil, err
	}
	database, ok := m.Databases[db]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, db)
	}
	table, ok := database.Tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrTableNotFound, db, name)
	}
	return table, nil
}
