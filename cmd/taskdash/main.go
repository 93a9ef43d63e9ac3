// Package main implements the taskdash CLI and terminal dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskdash/internal/config"
	"github.com/tgienger/taskdash/internal/db"
	"github.com/tgienger/taskdash/internal/logging"
	"github.com/tgienger/taskdash/internal/metrics"
	"github.com/tgienger/taskdash/internal/store"
	"github.com/tgienger/taskdash/internal/ui"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "taskdash",
	Short:        "Task management dashboard",
	Long:         "Track projects, tasks and notifications from the terminal.\nRun without a subcommand to open the dashboard.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDashboard,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default $XDG_CONFIG_HOME/taskdash/config.toml)")
}

// env is everything a command needs to talk to the task store
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *db.DB
	store   *store.Store
	metrics *metrics.Metrics
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// openEnv loads the config and opens the store on top of the database
func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	m := metrics.New(prometheus.NewRegistry())
	s, err := store.Open(store.Options{
		Persister:     database,
		Logger:        logger,
		Metrics:       m,
		Users:         cfg.Users,
		CurrentUserID: cfg.Storage.CurrentUser,
	})
	if err != nil {
		database.Close()
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, db: database, store: s, metrics: m}, nil
}

// Close flushes the store and releases the database
func (e *env) Close() error {
	err := e.store.Close()
	if cerr := e.db.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	_ = e.logger.Sync()
	return err
}

// serveMetrics exposes the registry when an address is configured
func (e *env) serveMetrics() (shutdown func()) {
	if e.cfg.Metrics.Addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", e.metrics.Handler())
	srv := &http.Server{Addr: e.cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	e.logger.Info("serving metrics", zap.String("addr", e.cfg.Metrics.Addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func runDashboard(cmd *cobra.Command, args []string) (err error) {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	interval, err := e.cfg.SweepInterval()
	if err != nil {
		return err
	}

	stopMetrics := e.serveMetrics()
	defer stopMetrics()

	app := ui.NewApp(e.store, e.db, e.logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	sweeper := store.NewSweeper(e.store, interval, e.logger)
	sweeper.OnSweep = func(n int) {
		if n > 0 {
			p.Send(ui.SweptMsg{Created: n})
		}
	}
	stopSweeper := sweeper.Start(cmd.Context())
	defer stopSweeper()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
