package cmd

import (
	"net/http"

	"github.com/Geun-Oh/uxlog/internal/buffer"
	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/Geun-Oh/uxlog/internal/pipeline"
	"github.com/Geun-Oh/uxlog/internal/server"
	"github.com/Geun-Oh/uxlog/internal/subtitle"
	"github.com/Geun-Oh/uxlog/internal/supervisor"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [file | url]",
	Short: "Serve the analysis API over HTTP",
	Long: `serve starts the HTTP API. Datasets are uploaded to POST /api/analyze.
Given a source, it is loaded at startup, and with --watch reloaded on change.
The HTTP server and the reloader run under a supervisor that restarts them on failure.`,
	Example: `  uxlog serve --addr :8080
  uxlog serve --watch logs.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	fs := serveCmd.Flags()
	addSourceFlags(fs)
	fs.String("addr", ":8080", "listen address")
	fs.Int("rate-limit", 120, "API requests per minute per client IP (0 disables)")
	fs.StringSlice("cors-origin", []string{"*"}, "allowed CORS origins")
	fs.String("subtitle-endpoint", "", "URL of the subtitle suggestion service")

	bind(fs, "server.addr", "addr")
	bind(fs, "server.rate_limit", "rate-limit")
	bind(fs, "server.cors_origins", "cors-origin")
	bind(fs, "subtitle.endpoint", "subtitle-endpoint")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, sc := cfg.Analyze, cfg.Server

	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	filters, err := buildFilters(a)
	if err != nil {
		return err
	}

	stats, history := monitor.NewStats(), buffer.NewHistory(0)
	srv := server.New(server.Options{
		Registry: reg,
		Filters:  filters,
		Stats:    stats,
		History:  history,
		Subtitles: subtitle.New(subtitle.Config{
			Endpoint:    cfg.Subtitle.Endpoint,
			Timeout:     cfg.Subtitle.Timeout,
			MaxFailures: cfg.Subtitle.MaxFailures,
			OpenTimeout: cfg.Subtitle.OpenTimeout,
		}),
		MaxUploadBytes: sc.MaxUploadBytes,
		RateLimit:      sc.RateLimit,
		CORSOrigins:    sc.CORSOrigins,
	})

	sup := supervisor.New("uxlog", supervisor.Config{ShutdownTimeout: sc.ShutdownTimeout})
	httpSrv := &http.Server{
		Addr:         sc.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
	}
	httpSrv.RegisterOnShutdown(srv.Close)
	sup.Add(server.NewHTTPService(httpSrv, sc.ShutdownTimeout))

	if len(args) > 0 || a.Source != "" {
		src, err := openSource(cmd.Flags(), args, a)
		if err != nil {
			return err
		}
		base := pipeline.Config{
			Source:   src,
			Registry: reg,
			Filters:  filters,
			Stats:    stats,
			Slot:     srv.Slot(),
			History:  history,
		}
		path := watchPath(src, a)
		reloader := pipeline.NewReloader(base, path, a.Debounce)
		if path != "" {
			sup.Add(reloader)
		} else if err := reloader.Load(ctx); err != nil {
			logging.Warn().Err(err).Str("source", src.Name()).Msg("initial load failed")
		}
	}

	return sup.Serve(ctx)
}
