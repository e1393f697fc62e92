package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Geun-Oh/uxlog/internal/buffer"
	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/Geun-Oh/uxlog/internal/notify"
	"github.com/Geun-Oh/uxlog/internal/pipeline"
	"github.com/Geun-Oh/uxlog/internal/source"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file | - | url | blob-url]",
	Short: "Analyze a log export and print the mission report",
	Example: `  uxlog analyze logs.csv
  uxlog analyze -f json -o report.json logs.csv
  uxlog analyze --missions edit2-1,memo3 --exclude tester01 logs.csv
  curl -s $SHEET_URL | uxlog analyze -
  uxlog analyze --watch --notify logs.csv
  uxlog analyze s3://exports/ux/logs.csv.gz`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	fs := analyzeCmd.Flags()
	addSourceFlags(fs)
	fs.StringP("format", "f", "text", "output format: text, json or funnel-csv")
	fs.StringP("output", "o", "", "write the report to a file instead of stdout")
	fs.Bool("color", true, "color text output on terminals")
	fs.Bool("stats", false, "print processing statistics after the report")
	fs.Bool("notify", false, "post a desktop notification after each reload in watch mode")

	bind(fs, "analyze.format", "format")
	bind(fs, "analyze.output", "output")
	bind(fs, "analyze.color", "color")
	bind(fs, "analyze.stats", "stats")
	bind(fs, "analyze.notify", "notify")
}

var desktop notify.Notifier = notify.NewDesktop("uxlog")

func runAnalyze(cmd *cobra.Command, args []string) error {
	a := cfg.Analyze
	src, err := openSource(cmd.Flags(), args, a)
	if err != nil {
		return explain(err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	filters, err := buildFilters(a)
	if err != nil {
		return err
	}

	stats := monitor.NewStats()
	slot := buffer.NewSlot()
	var last *monitor.Report
	once := func() error {
		sinks, err := buildSinks(a)
		if err != nil {
			return err
		}
		report, err := pipeline.Run(cmd.Context(), &pipeline.Config{
			Source:    src,
			Registry:  reg,
			Filters:   filters,
			Sinks:     sinks,
			Stats:     stats,
			Slot:      slot,
			ShowStats: a.Stats,
		})
		if err == nil {
			if a.Notify && last != nil {
				if nerr := notify.Reloaded(desktop, last, report); nerr != nil {
					logging.Debug().Err(nerr).Msg("desktop notification failed")
				}
			}
			last = report
		}
		return err
	}

	path := watchPath(src, a)
	if path == "" {
		return explain(once())
	}

	changes, err := source.NewWatcher(path, a.Debounce).Watch(cmd.Context())
	if err != nil {
		return err
	}
	if err := explain(once()); err != nil {
		logging.Warn().Err(err).Msg("initial load failed; waiting for changes")
	}
	for range changes {
		if err := explain(once()); err != nil && !errors.Is(err, pipeline.ErrStale) {
			logging.Warn().Err(err).Msg("reload failed; keeping previous report")
		}
	}
	return nil
}

// explain turns the input sentinels into user-facing messages.
func explain(err error) error {
	switch {
	case errors.Is(err, pipeline.ErrNoSource):
		return fmt.Errorf("no input: pass a file, \"-\" for stdin, a URL or --exec")
	case errors.Is(err, pipeline.ErrNoData):
		fmt.Fprintln(os.Stderr, "데이터가 없습니다: the input has no header line")
		return err
	case errors.Is(err, pipeline.ErrEmptyData):
		fmt.Fprintln(os.Stderr, "데이터가 비어 있습니다: the input has a header but no rows")
		return err
	default:
		return err
	}
}
