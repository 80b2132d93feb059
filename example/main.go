package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cyp0633/librecur/internal/caltime"
	"github.com/cyp0633/librecur/options"
	"github.com/cyp0633/librecur/recurrence"
)

const (
	// Number of upcoming occurrences to print
	defaultCount = 10
)

// sampleOptions is used when no options file is given: every 2 weeks,
// 12:00 to 20:00, six times.
const sampleOptions = `
start_date: 2018-03-06T12:00:00Z
end_date: 2018-03-06T20:00:00Z
repeat_frequency: 2
repeat_interval: week
ends: 6
`

func main() {
	path := flag.String("options", "", "Path to a YAML options file (uses a built-in sample if empty)")
	count := flag.Int("n", defaultCount, "Number of occurrences to list")
	atFlag := flag.String("at", "", "RFC 3339 instant to test for membership (defaults to now)")
	ics := flag.Bool("ics", false, "Print the series as an iCalendar document")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	validator := options.NewValidator(options.WithLogger(logger))

	series, err := loadSeries(validator, *path)
	if err != nil {
		logger.Error("failed to build series", "error", err)
		os.Exit(1)
	}

	for i, occ := range series.Next(*count) {
		fmt.Printf("%3d  %s\n", i, occ)
	}

	at := caltime.Now()
	if *atFlag != "" {
		at, err = time.Parse(time.RFC3339, *atFlag)
		if err != nil {
			logger.Error("invalid -at instant", "value", *atFlag, "error", err)
			os.Exit(1)
		}
	}
	if idx, ok := series.Locate(at); ok {
		fmt.Printf("%s is inside occurrence %d\n", at.Format(time.RFC3339), idx)
	} else {
		fmt.Printf("%s is not inside any occurrence\n", at.Format(time.RFC3339))
	}

	if *ics {
		out, err := recurrence.EncodeICS(series.ToEvent(""))
		if err != nil {
			logger.Error("failed to encode calendar", "error", err)
			os.Exit(1)
		}
		fmt.Print(out)
	}
}

func loadSeries(v *options.Validator, path string) (*recurrence.Series, error) {
	if path != "" {
		return v.Load(path)
	}

	raw, err := options.Parse([]byte(sampleOptions))
	if err != nil {
		return nil, err
	}
	return v.Build(raw)
}
