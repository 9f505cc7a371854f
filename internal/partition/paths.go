// Package partition implements the Path Planner and Partition Writer: pure
// date-range-to-file-path enumeration, and the validate → infer → merge →
// dedupe → atomic-rewrite sequence for appending records to a day
// partition.
package partition

import (
	"fmt"
	"time"
)

// Granularity selects day- or month-level partition naming.
type Granularity int

const (
	Day Granularity = iota
	Month
)

// DateRange is an inclusive [Start, End] calendar range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

const fileExt = "db"

// GeneratePaths is a pure function from (baseDir, fileName, dateRange,
// granularity, isS3) to the ordered list of partition URIs/paths the
// range covers. Day granularity iterates calendar days inclusive; Month
// granularity iterates every calendar month the range touches, from
// Start's month through End's month, incrementing with year wraparound.
func GeneratePaths(baseDir, fileName string, rng DateRange, gran Granularity, isS3 bool) []string {
	var paths []string
	prefix := ""
	if isS3 {
		prefix = "s3://"
	}

	switch gran {
	case Day:
		for d := truncateToDay(rng.Start); !d.After(truncateToDay(rng.End)); d = d.AddDate(0, 0, 1) {
			paths = append(paths, fmt.Sprintf("%s%s/%s_%s.%s", prefix, baseDir, fileName, d.Format("2006-01-02"), fileExt))
		}
	case Month:
		m := time.Date(rng.Start.Year(), rng.Start.Month(), 1, 0, 0, 0, 0, rng.Start.Location())
		end := time.Date(rng.End.Year(), rng.End.Month(), 1, 0, 0, 0, 0, rng.End.Location())
		for !m.After(end) {
			paths = append(paths, fmt.Sprintf("%s%s/%s_%s.%s", prefix, baseDir, fileName, m.Format("2006-01"), fileExt))
			m = nextMonth(m)
		}
	}
	return paths
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// nextMonth increments the calendar month, wrapping December into
// January of the following year.
func nextMonth(t time.Time) time.Time {
	if t.Month() == time.December {
		return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, t.Location())
	}
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}
