package cmd

import (
	"github.com/Geun-Oh/uxlog/internal/tui"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [file | - | url]",
	Short: "Browse the mission report in an interactive terminal dashboard",
	Example: `  uxlog dashboard logs.csv
  uxlog dashboard --watch logs.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDashboard,
}

func init() {
	addSourceFlags(dashboardCmd.Flags())
}

func runDashboard(cmd *cobra.Command, args []string) error {
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

	return tui.Run(cmd.Context(), &tui.RunConfig{
		Source:    src,
		Registry:  reg,
		Filters:   filters,
		WatchPath: watchPath(src, a),
		Debounce:  a.Debounce,
	})
}
