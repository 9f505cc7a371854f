package cloudsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"

	"github.com/timon-db/timon/internal/partition"
	"github.com/timon-db/timon/internal/query"
)

// BucketQuery mirrors the local Query Engine but resolves partitions as
// monthly objects in the bucket: the table name is extracted from
// sqlQuery, the Path Planner enumerates candidate keys under dbName,
// each is downloaded to a temp file only if it exists, and the
// downloaded files are unioned exactly like local partitions (a SQLite
// file is a SQLite file regardless of origin).
func (c *Client) BucketQuery(ctx context.Context, dbName string, rng partition.DateRange, sqlQuery string) ([]map[string]any, error) {
	tableName, err := query.ExtractTableName(sqlQuery)
	if err != nil {
		return nil, err
	}

	candidates := partition.GeneratePaths(dbName, tableName, rng, partition.Month, false)

	tmpDir, err := os.MkdirTemp("", "timon-bucketquery-*")
	if err != nil {
		return nil, fmt.Errorf("cloudsync: create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	for _, key := range candidates {
		if _, err := c.mc.StatObject(ctx, c.Bucket, key, minio.StatObjectOptions{}); err != nil {
			continue
		}
		localPath := filepath.Join(tmpDir, filepath.Base(key))
		if err := c.mc.FGetObject(ctx, c.Bucket, key, localPath, minio.GetObjectOptions{}); err != nil {
			return nil, fmt.Errorf("cloudsync: download %s: %w", key, err)
		}
	}

	return query.Run(tmpDir, rng, partition.Month, sqlQuery)
}
