package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/formvalidator/internal/config"
	"github.com/vango-dev/formvalidator/pkg/live"
	"github.com/vango-dev/formvalidator/pkg/metrics"
	"github.com/vango-dev/formvalidator/pkg/validator"
)

type serveOptions struct {
	configPath string
	page       string
	port       int
	host       string
	metrics    bool
	demo       bool
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live validation server",
		Long: `Serve the configured page and validate its form on the server as the
user types. Field events travel over a WebSocket; error messages and
invalid markers are patched back into the page.

Examples:
  formvalidator serve
  formvalidator serve --port=8080 --metrics
  formvalidator serve --demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: search from the working directory)")
	cmd.Flags().StringVar(&opts.page, "page", "", "Page file (default from config)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to run on (default from config)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Expose Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "Serve the built-in registration form")

	return cmd
}

func runServe(cmd *cobra.Command, opts serveOptions) error {
	var (
		cfg  *config.Config
		page []byte
		err  error
	)
	if opts.demo {
		cfg = demoConfig()
		page = []byte(demoMarkup())
	} else {
		if cfg, err = loadConfig(opts.configPath); err != nil {
			return err
		}
		if opts.page != "" {
			if cfg.Page, err = filepath.Abs(opts.page); err != nil {
				return err
			}
		}
	}

	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.metrics {
		cfg.Server.Metrics = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if page == nil {
		if page, err = cfg.LoadPage(); err != nil {
			return err
		}
	}

	logger := slog.Default()
	vcfg, err := cfg.ValidatorConfig(func(data validator.FormData) {
		logger.Info("form submitted", "fields", len(data))
	})
	if err != nil {
		return err
	}

	liveCfg := live.Config{
		Page:      page,
		Validator: vcfg,
		Logger:    logger,
	}
	if cfg.Server.Metrics {
		liveCfg.Metrics = metrics.New()
		liveCfg.Gatherer = prometheus.DefaultGatherer
	}

	srv, err := live.New(liveCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := cmd.OutOrStdout()
	success(w, "Serving %s", cfg.URL())
	if cfg.Server.Metrics {
		info(w, "Metrics on %s%s", cfg.URL(), live.MetricsPath)
	}

	return srv.ListenAndServe(ctx, cfg.Address())
}
