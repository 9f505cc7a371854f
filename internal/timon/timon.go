// Package timon is the public API facade: every operation returns an
// envelope.Envelope, matching the uniform response contract the CLI and
// MCP surfaces both build on. Process-wide Catalog and cloud-store
// handles are set once by Init/InitBucket and reused by every
// subsequent call, mirroring the package-level singletons of the engine
// this facade replaces.
package timon

import (
	"context"
	"sync"
	"time"

	"github.com/timon-db/timon/internal/catalog"
	"github.com/timon-db/timon/internal/cloudsync"
	"github.com/timon-db/timon/internal/envelope"
	"github.com/timon-db/timon/internal/partition"
	"github.com/timon-db/timon/internal/query"
	"github.com/timon-db/timon/internal/schema"
)

var (
	catalogMu sync.RWMutex
	catalogH  *catalog.Catalog
	cloudMu   sync.RWMutex
	cloudH    *cloudsync.Client
)

// Init opens (creating if absent) the catalog at storagePath and sets it
// as the process-wide handle used by every other package function. It
// also returns the handle directly for callers that prefer to thread
// state explicitly instead of relying on the global.
func Init(storagePath string) (*catalog.Catalog, envelope.Envelope) {
	c, err := catalog.Open(storagePath)
	if err != nil {
		return nil, envelope.Err(err)
	}
	catalogMu.Lock()
	catalogH = c
	catalogMu.Unlock()
	return c, envelope.OK("catalog initialized", nil)
}

func getCatalog() (*catalog.Catalog, error) {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	if catalogH == nil {
		return nil, errNotInitialized
	}
	return catalogH, nil
}

// InitBucket connects to an S3-compatible store and sets it as the
// process-wide cloud handle used by SinkMonthly and QueryBucket.
func InitBucket(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*cloudsync.Client, envelope.Envelope) {
	client, err := cloudsync.New(ctx, endpoint, accessKey, secretKey, bucket, useSSL)
	if err != nil {
		return nil, envelope.Err(err)
	}
	cloudMu.Lock()
	cloudH = client
	cloudMu.Unlock()
	return client, envelope.OK("bucket initialized", nil)
}

func getCloud() (*cloudsync.Client, error) {
	cloudMu.RLock()
	defer cloudMu.RUnlock()
	if cloudH == nil {
		return nil, errBucketNotInitialized
	}
	return cloudH, nil
}

// CreateDatabase registers a new logical database.
func CreateDatabase(name string) envelope.Envelope {
	c, err := getCatalog()
	if err != nil {
		return envelope.Err(err)
	}
	if err := c.CreateDatabase(name); err != nil {
		return envelope.Err(err)
	}
	return envelope.OK("database created", nil)
}

// DeleteDatabase removes a database and its data.
func DeleteDatabase(name string) envelope.Envelope {
	c, err := getCatalog()
	if err != nil {
		return envelope.Err(err)
	}
	if err := c.DeleteDatabase(name); err != nil {
		return envelope.Err(err)
	}
	return envelope.OK("database deleted", nil)
}

// ListDatabases returns every registered database name.
func ListDatabases() envelope.Envelope {
	c, err := getCatalog()
	if err != nil {
		return envelope.Err(err)
	}
	names, err := c.ListDatabases()
	if err != nil {
		return envelope.Err(err)
	}
	return envelope.OK("ok", names)
}

// CreateTable validates doc and registers a new table under db.
func CreateTable(db, name string, doc schema.Doc) envelope.Envelope {
	c, err := getCatalog()
	if err != nil {
		return envelope.Err(err)
	}
	if err := c.CreateTable(db, name, doc); err != nil {
		return envelope.Err(err)
	}
	return envelope.OK("table created", nil)
}

// DeleteTable removes a table and its partition files.
func DeleteTable(db, name string) envelope.Envelope {
	c, err := getCatalog()
	if err != nil {
		return envelope.Err(err)
	}
	if err := c.DeleteTable(db, name); err != nil {
		return envelope.Err(err)
	}
	return envelope.OK("table deleted", nil)
}

// ListTables returns every table name registered under db.
func ListTables(db string) envelope.Envelope {
	c, err := getCatalog()
	if err != nil {
		return envelope.Err(err)
	}
	names, err := c.ListTables(db)
	if err != nil {
		return envelope.Err(err)
	}
	return envelope.OK("ok", names)
}

// Insert appends records to today's day partition for db/table.
func Insert(db, table string, records []map[string]any) envelope.Envelope {
	c, err := getCatalog()
	if err != nil {
		return envelope.Err(err)
	}
	t, err := c.GetTable(db, table)
	if err != nil {
		return envelope.Err(err)
	}
	if err := partition.Insert(t.Path, table, t.Schema, records, time.Now().UTC()); err != nil {
		return envelope.Err(err)
	}
	return envelope.OK("inserted", nil)
}

// Query extracts the target table from sqlQuery, resolves its day
// partitions covering rng, and runs sqlQuery against their union.
func Query(db string, rng partition.DateRange, sqlQuery string) envelope.Envelope {
	table, err := query.ExtractTableName(sqlQuery)
	if err != nil {
		return envelope.Err(err)
	}
	c, err := getCatalog()
	if err != nil {
		return envelope.Err(err)
	}
	t, err := c.GetTable(db, table)
	if err != nil {
		return envelope.Err(err)
	}
	rows, err := query.Run(t.Path, rng, partition.Day, sqlQuery)
	if err != nil {
		return envelope.Err(err)
	}
	return envelope.OK("ok", rows)
}

// QueryBucket extracts the target table from sqlQuery and resolves
// monthly objects covering rng from the configured bucket, running
// sqlQuery against their union.
func QueryBucket(ctx context.Context, db string, rng partition.DateRange, sqlQuery string) envelope.Envelope {
	cloud, err := getCloud()
	if err != nil {
		return envelope.Err(err)
	}
	rows, err := cloud.BucketQuery(ctx, db, rng, sqlQuery)
	if err != nil {
		return envelope.Err(err)
	}
	return envelope.OK("ok", rows)
}

// SinkMonthly aggregates and uploads every table under db.
func SinkMonthly(ctx context.Context, db string, reporter cloudsync.Reporter) envelope.Envelope {
	c, err := getCatalog()
	if err != nil {
		return envelope.Err(err)
	}
	cloud, err := getCloud()
	if err != nil {
		return envelope.Err(err)
	}
	tables, err := c.ListTables(db)
	if err != nil {
		return envelope.Err(err)
	}
	for _, name := range tables {
		t, err := c.GetTable(db, name)
		if err != nil {
			return envelope.Err(err)
		}
		if err := cloud.SinkTable(ctx, db, name, t.Path, time.Now().UTC(), reporter); err != nil {
			return envelope.Err(err)
		}
	}
	return envelope.OK("sink complete", nil)
}
