package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/timon-db/timon/internal/partition"
	"github.com/timon-db/timon/internal/timon"
)

const dateLayout = "2006-01-02"

var queryFrom, queryTo string

var queryCmd = &cobra.Command{
	Use:   "query [db] [sql]",
	Short: "Run a SQL query over the day partitions covering --from/--to",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ensureCatalog(); err != nil {
			return err
		}
		rng, err := parseDateRange(queryFrom, queryTo)
		if err != nil {
			return err
		}
		return printEnvelope(timon.Query(args[0], rng, args[1]))
	},
}

func parseDateRange(from, to string) (partition.DateRange, error) {
	if from == "" || to == "" {
		return partition.DateRange{}, fmt.Errorf("--from and --to are required (YYYY-MM-DD)")
	}
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return partition.DateRange{}, fmt.Errorf("invalid --from: %w", err)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return partition.DateRange{}, fmt.Errorf("invalid --to: %w", err)
	}
	return partition.DateRange{Start: start, End: end}, nil
}

func init() {
	queryCmd.Flags().StringVar(&queryFrom, "from", "", "range start date (YYYY-MM-DD)")
	queryCmd.Flags().StringVar(&queryTo, "to", "", "range end date (YYYY-MM-DD)")
	rootCmd.AddCommand(queryCmd)
}
