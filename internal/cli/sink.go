package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/timon-db/timon/internal/daemon"
	"github.com/timon-db/timon/internal/timon"
)

var (
	sinkDaemon bool
	sinkQuiet  bool
)

var sinkCmd = &cobra.Command{
	Use:   "sink [db]",
	Short: "Run Monthly Sink for every table in db, uploading to the object store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ensureCatalog()
		if err != nil {
			return err
		}
		if err := ensureBucket(); err != nil {
			return err
		}

		reporter := NewCLIProgressReporter(sinkQuiet)

		if !sinkDaemon {
			return printEnvelope(timon.SinkMonthly(context.Background(), args[0], reporter))
		}

		return runSinkDaemon(args[0], cfg.Sink.IntervalMinutes, reporter)
	},
}

// runSinkDaemon enforces single-instance ownership of the sink schedule
// for this database and then runs Monthly Sink on a fixed interval
// until terminated, logging but not aborting on a failed cycle.
func runSinkDaemon(db string, intervalMinutes int, reporter *CLIProgressReporter) error {
	singleton := daemon.NewSingletonDaemon("sink-"+db, sinkSocketPath(db))
	won, err := singleton.EnforceSingleton()
	if err != nil {
		return fmt.Errorf("sink daemon: %w", err)
	}
	if !won {
		log.Println("sink daemon: another instance is already running for this database, exiting")
		return nil
	}
	defer singleton.Release()

	listener, err := singleton.BindSocket()
	if err != nil {
		return fmt.Errorf("sink daemon: bind socket: %w", err)
	}
	defer listener.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(intervalMinutes) * time.Minute)
	defer ticker.Stop()

	log.Printf("sink daemon: running every %d minutes for database %q\n", intervalMinutes, db)
	runOnce(db, reporter)

	for {
		select {
		case <-ticker.C:
			runOnce(db, reporter)
		case sig := <-sigCh:
			log.Printf("sink daemon: received %s, shutting down\n", sig)
			return nil
		}
	}
}

func runOnce(db string, reporter *CLIProgressReporter) {
	env := timon.SinkMonthly(context.Background(), db, reporter)
	if !env.IsOK() {
		log.Printf("sink daemon: cycle failed: %s\n", env.Message)
	}
}

func sinkSocketPath(db string) string {
	return fmt.Sprintf("/tmp/timon-sink-%s.sock", db)
}

func init() {
	sinkCmd.Flags().BoolVar(&sinkDaemon, "daemon", false, "run as a long-lived background scheduler")
	sinkCmd.Flags().BoolVar(&sinkQuiet, "quiet", false, "suppress progress output")
	rootCmd.AddCommand(sinkCmd)
}
