package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/timon-db/timon/internal/cloudsync"
	"github.com/timon-db/timon/internal/config"
	"github.com/timon-db/timon/internal/envelope"
	"github.com/timon-db/timon/internal/timon"
)

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Sync and query the S3-compatible object store",
}

var bucketDevDefaults bool

var bucketInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Connect to the object store configured in .timon/config.yml",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if bucketDevDefaults {
			log.Println("bucket init: --dev-defaults set, connecting with insecure local development credentials")
			cfg.Bucket.DevDefaults = true
		}
		return printEnvelope(initBucket(context.Background(), cfg))
	},
}

var bucketQueryCmd = &cobra.Command{
	Use:   "query [db] [sql]",
	Short: "Run a SQL query over monthly objects covering --from/--to",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureBucket(); err != nil {
			return err
		}
		rng, err := parseDateRange(queryFrom, queryTo)
		if err != nil {
			return err
		}
		return printEnvelope(timon.QueryBucket(context.Background(), args[0], rng, args[1]))
	},
}

func ensureBucket() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	env := initBucket(context.Background(), cfg)
	if !env.IsOK() {
		return fmt.Errorf("%s", env.Message)
	}
	return nil
}

func initBucket(ctx context.Context, cfg *config.Config) envelope.Envelope {
	if cfg.Bucket.DevDefaults {
		_, env := timon.InitBucket(ctx, cloudsync.DevDefaultEndpoint, cloudsync.DevDefaultAccessKey, cloudsync.DevDefaultSecretKey, cloudsync.DevDefaultBucket, false)
		return env
	}
	_, env := timon.InitBucket(ctx, cfg.Bucket.Endpoint, cfg.Bucket.AccessKey, cfg.Bucket.SecretKey, cfg.Bucket.Bucket, cfg.Bucket.UseSSL)
	return env
}

func init() {
	bucketInitCmd.Flags().BoolVar(&bucketDevDefaults, "dev-defaults", false, "connect using insecure local development credentials instead of config")
	bucketQueryCmd.Flags().StringVar(&queryFrom, "from", "", "range start date (YYYY-MM-DD)")
	bucketQueryCmd.Flags().StringVar(&queryTo, "to", "", "range end date (YYYY-MM-DD)")
	bucketCmd.AddCommand(bucketInitCmd, bucketQueryCmd)
	rootCmd.AddCommand(bucketCmd)
}
