package cloudsync

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/timon-db/timon/internal/aggregate"
)

var dayKeyRe = regexp.MustCompile(`_(\d{4})-(\d{2})-\d{2}\.db$`)

// Reporter mirrors aggregate.Reporter for CLI progress wiring across the
// sink's per-month loop.
type Reporter = aggregate.Reporter

// maxSinkWorkers bounds how many months this table sinks at once. Months
// are independent (their day files and merged output never overlap), so
// this is purely a cap on object-store concurrency, not a correctness
// requirement.
const maxSinkWorkers = 4

// SinkTable runs the full monthly aggregation for one table and uploads
// results to the object store: every day file as a hierarchical
// provenance object (db/YYYY/MM/table_YYYY-MM-DD.db) before it is
// evicted, and each month's merged file as a flat object
// (db/table_YYYY-MM.db) for Bucket Query to fetch directly. Months sink
// concurrently, bounded by maxSinkWorkers. Upload failures for one month
// are logged and do not abort the remaining months; eviction runs only
// after every month has finished sinking.
func (c *Client) SinkTable(ctx context.Context, dbName, tableName, tableDir string, now time.Time, reporter Reporter) error {
	groups, err := aggregate.MonthlyGroups(tableDir, tableName)
	if err != nil {
		return err
	}

	var (
		wg       sync.WaitGroup
		sem      = make(chan struct{}, maxSinkWorkers)
		reportMu sync.Mutex
	)

	for month, dayFiles := range groups {
		wg.Add(1)
		sem <- struct{}{}
		go func(month string, dayFiles []string) {
			defer wg.Done()
			defer func() { <-sem }()
			c.sinkMonth(ctx, dbName, tableName, tableDir, month, dayFiles, reporter, &reportMu)
		}(month, dayFiles)
	}
	wg.Wait()

	return aggregate.Evict(tableDir, tableName, groups, now)
}

// sinkMonth uploads one month's day files and merged aggregate. reportMu
// serializes reporter calls since a CLI progress reporter renders one bar
// at a time and is not safe for concurrent use across months.
func (c *Client) sinkMonth(ctx context.Context, dbName, tableName, tableDir, month string, dayFiles []string, reporter Reporter, reportMu *sync.Mutex) {
	if reporter != nil {
		reportMu.Lock()
		reporter.OnMonthStart(month, len(dayFiles))
		reportMu.Unlock()
	}

	for _, f := range dayFiles {
		key, ok := hierarchicalKey(dbName, f)
		if !ok {
			continue
		}
		if err := c.uploadFile(ctx, f, key); err != nil {
			log.Printf("cloudsync: upload %s failed: %v", f, err)
		}
	}

	merged, err := aggregate.Merge(tableDir, tableName, month, dayFiles)
	if err != nil {
		log.Printf("cloudsync: merge month %s failed: %v", month, err)
	} else {
		flatKey := fmt.Sprintf("%s/%s_%s.db", dbName, tableName, month)
		if err := c.uploadFile(ctx, merged, flatKey); err != nil {
			log.Printf("cloudsync: upload merged month %s failed: %v", month, err)
		}
	}

	if reporter != nil {
		reportMu.Lock()
		reporter.OnMonthComplete(month)
		reportMu.Unlock()
	}
}

func hierarchicalKey(dbName, localPath string) (string, bool) {
	m := dayKeyRe.FindStringSubmatch(filepath.Base(localPath))
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("%s/%s/%s/%s", dbName, m[1], m[2], filepath.Base(localPath)), true
}

func (c *Client) uploadFile(ctx context.Context, localPath, key string) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("cloudsync: stat %s: %w", localPath, err)
	}
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("cloudsync: open %s: %w", localPath, err)
	}
	defer f.Close()

	_, err = c.mc.PutObject(ctx, c.Bucket, key, f, info.Size(), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("cloudsync: put %s: %w", key, err)
	}
	return nil
}
