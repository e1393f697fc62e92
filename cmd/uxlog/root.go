// Package cmd implements the uxlog command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Geun-Oh/uxlog/internal/config"
	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	v       = config.New()
	cfg     *config.Config

	rootCmd = &cobra.Command{
		Use:   "uxlog",
		Short: "uxlog analyzes mission logs from usability tests",
		Long: `uxlog reads the CSV interaction logs exported by the mission app and reports
per-mission participation, completion, timing, first-try success and the overall funnel.

Input can be a file, stdin ("-"), an http(s) URL or the output of a command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd.Flags()); err != nil {
				return err
			}
			c, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			cfg = c
			logging.Init(cfg.Log)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Close()
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./uxlog.yaml, or $UXLOG_CONFIG)")
	pf.String("log-level", "info", "log level: trace, debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("log-file", "", "write logs to a rotated file instead of stderr")

	bind(pf, "log.level", "log-level")
	bind(pf, "log.format", "log-format")
	bind(pf, "log.file", "log-file")

	rootCmd.AddCommand(analyzeCmd, dashboardCmd, serveCmd, trackCmd, missionsCmd)
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
