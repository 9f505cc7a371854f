package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/timon-db/timon/internal/aggregate"
)

// CLIProgressReporter renders a progress bar per month as the sink
// scheduler aggregates and uploads day partitions.
type CLIProgressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

var _ aggregate.Reporter = (*CLIProgressReporter)(nil)

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnMonthStart(month string, fileCount int) {
	if c.quiet {
		return
	}
	c.bar = progressbar.NewOptions(fileCount,
		progressbar.OptionSetDescription(fmt.Sprintf("Sinking %s", month)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
	c.bar.Add(fileCount)
}

func (c *CLIProgressReporter) OnMonthComplete(month string) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
	fmt.Printf("done %s\n", month)
}
