package commands

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atterbury/sitepress/internal/logfields"
	"github.com/atterbury/sitepress/internal/metrics"
	"github.com/atterbury/sitepress/internal/state"
	"github.com/atterbury/sitepress/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output          string        `short:"o" help:"Output directory override"`
	Drafts          bool          `help:"Include draft items"`
	RebuildInterval time.Duration `help:"Force a periodic full rebuild (0 disables)" default:"0"`
	MetricsListen   string        `help:"Serve Prometheus metrics on this address (empty disables)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, w.Output, w.Drafts)
	if err != nil {
		return err
	}

	builder, err := newBuilder(cfg)
	if err != nil {
		return err
	}

	if w.MetricsListen != "" {
		builder.WithRecorder(metrics.NewPrometheusRecorder(nil))
		go serveMetrics(w.MetricsListen)
	}

	if cfg.Build.StatePath != "" {
		store, err := state.Open(cfg.Build.StatePath)
		if err != nil {
			slog.Warn("Build state unavailable, continuing without it", logfields.Error(err))
		} else {
			defer func() { _ = store.Close() }()
			builder.WithState(store)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Scheduled and change-triggered rebuilds arrive from different
	// goroutines; a pass must finish before the next flips the mode.
	var mu sync.Mutex
	rebuild := func(ctx context.Context, full bool) error {
		mu.Lock()
		defer mu.Unlock()
		report, err := builder.Incremental(!full).Build(ctx)
		if err != nil {
			return err
		}
		if report.HasFailures() {
			slog.Warn("Build finished with failing items", logfields.Count(len(report.Issues)))
		}
		return nil
	}

	watcher := watch.New([]string{cfg.Content.Directory, cfg.Layouts.Directory}, rebuild)
	if w.RebuildInterval > 0 {
		watcher.WithRebuildInterval(w.RebuildInterval)
	}
	return watcher.Run(ctx)
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("Serving metrics", slog.String("addr", addr))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil {
		slog.Warn("Metrics server stopped", logfields.Error(err))
	}
}
