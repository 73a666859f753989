package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/raoulx24/pbm-pruner/internal/config"
	"github.com/raoulx24/pbm-pruner/internal/logging"
	"github.com/raoulx24/pbm-pruner/internal/mailbox"
	"github.com/raoulx24/pbm-pruner/internal/metrics"
	"github.com/raoulx24/pbm-pruner/internal/prune"
	"github.com/raoulx24/pbm-pruner/internal/watcher"
	"github.com/raoulx24/pbm-pruner/internal/worker"
)

const shutdownTimeout = 10 * time.Second

var daemonFlags struct {
	runOnStart bool
	listen     string
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Prune on a cron schedule and serve metrics",
	Long: `Run prunes on the configured cron schedule until SIGINT or SIGTERM.

Unlike "prune", the daemon deletes unless prune.dryRun is set in the config.
The config file is reloaded when it changes and on SIGHUP; the pbm connection
settings are only read at startup.

Examples:
  pbm-pruner daemon --config /etc/pbm-pruner/config.yaml
  pbm-pruner daemon --run-on-start --listen :9479`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().BoolVar(&daemonFlags.runOnStart, "run-on-start", false, "prune once immediately after start")
	daemonCmd.Flags().StringVarP(&daemonFlags.listen, "listen", "l", "", "override metrics listen address")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, log, client, err := setup(cmd)
	if err != nil {
		return err
	}
	if daemonFlags.listen != "" {
		cfg.Metrics.Listen = daemonFlags.listen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector(nil)
	pruner := prune.New(client, log, collector)

	mb := mailbox.New[worker.Job]()
	w := worker.New(settingsFrom(cfg), pruner, log, mb)

	sched := worker.NewScheduler(mb, log)
	if err := sched.Start(cfg.Schedule.Cron); err != nil {
		return err
	}
	defer sched.Stop()
	if next := sched.NextRun(); next != nil {
		log.Info("next scheduled prune", "at", *next)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return w.Start(ctx) })

	if cfg.Metrics.Enabled {
		serveMetrics(ctx, g, cfg.Metrics, collector, log)
	}

	var watch *watcher.Watcher
	apply := func(newCfg *config.Config) {
		w.UpdateConfig(settingsFrom(newCfg))
		if err := sched.Reschedule(newCfg.Schedule.Cron); err != nil {
			log.Error("keeping previous schedule", "error", err)
		}
		if watch != nil {
			watch.UpdateConfig(newCfg.ConfigReload)
		}
		if newCfg.PBM != cfg.PBM {
			log.Warn("pbm settings changed; restart to apply them")
		}
	}

	if _, statErr := os.Stat(cfgFile); statErr == nil && cfg.ConfigReload.Enabled {
		watch = watcher.New(cfgFile, cfg.ConfigReload, log, apply)
		g.Go(func() error { return watch.Start(ctx) })
	}

	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-hup:
				if watch != nil {
					watch.Reload()
					continue
				}
				newCfg, err := config.LoadOptional(cfgFile)
				if err != nil {
					log.Error("config reload failed", "error", err)
					continue
				}
				apply(newCfg)
				log.Info("config reloaded")
			}
		}
	})

	if daemonFlags.runOnStart || cfg.Schedule.RunOnStart {
		sched.Trigger("startup")
	}

	log.Info("daemon started", "schedule", cfg.Schedule.Cron, "policy", cfg.Retention.Policy().String())
	err = g.Wait()
	log.Info("daemon stopped")
	return err
}

func settingsFrom(cfg *config.Config) worker.Settings {
	return worker.Settings{Policy: cfg.Retention.Policy(), Options: optionsFrom(cfg)}
}

func serveMetrics(ctx context.Context, g *errgroup.Group, cfg config.MetricsConfig, collector *metrics.Collector, log logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, collector.Handler())
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		log.Info("serving metrics", "listen", cfg.Listen, "path", cfg.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
