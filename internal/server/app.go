// Package server initializes and runs the carnet server: storage, the
// roster and workspace components, the gRPC endpoint and the metrics
// listener, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/carnet/internal/logging"
	"github.com/dmitrijs2005/carnet/internal/server/config"
	"github.com/dmitrijs2005/carnet/internal/server/fixtures"
	"github.com/dmitrijs2005/carnet/internal/server/intake"
	"github.com/dmitrijs2005/carnet/internal/server/metrics"
	"github.com/dmitrijs2005/carnet/internal/server/photos"
	"github.com/dmitrijs2005/carnet/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carnet/internal/server/roster"
	"github.com/dmitrijs2005/carnet/internal/server/workspace"
	"github.com/dmitrijs2005/carnet/internal/tasks"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/carnet/internal/server/grpc"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	metrics    *metrics.Metrics
	repos      repomanager.RepositoryManager
	runner     *tasks.Runner
	matcher    *roster.AutoMatcher
	workspaces *workspace.Manager
	grpc       *gs.GRPCServer
}

// NewApp wires the server from c, logging JSON to stdout.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return NewAppWithLogger(ctx, c, logging.NewJSON(os.Stdout, c.LogLevel))
}

// NewAppWithLogger opens storage, runs migrations, seeds an empty roster
// when configured, and builds every component.
func NewAppWithLogger(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dsn := c.DatabaseDSN
	if c.StorageDriver == config.StorageSQLite {
		dsn = c.SQLitePath
	}
	repos, err := repomanager.New(c.StorageDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("db migrations: %w", err)
	}
	if c.Seed {
		n, err := repomanager.Seed(ctx, repos, fixtures.Default)
		if err != nil {
			_ = repos.Close()
			return nil, err
		}
		if n > 0 {
			logger.Info(ctx, "Roster seeded", "records", n)
		}
	}

	m := metrics.New()
	runner := tasks.NewRunner(tasks.RealClock())
	store := roster.NewStore(repos, logger, m)
	ps := newPhotoStorage(c)
	matcher := roster.NewAutoMatcher(store, runner, c.AutoMatchDelay, logger, m)

	ws := workspace.NewManager(store, runner, nil, intakeDeps(c, store, ps), workspace.Config{
		SessionTTL:      c.SessionTTL,
		ExtractionDelay: c.ExtractionDelay,
		Intake: intake.Config{
			IdentityDelay: c.IdentityDelay,
			QualityTick:   c.QualityTick,
			LookupTimeout: c.LookupTimeout,
		},
	}, logger, m)

	srv, err := gs.NewGRPCServer(c.GRPCAddr, logger, gs.Services{
		Roster:            store,
		AutoMatch:         matcher,
		Workspaces:        ws,
		Photos:            ps,
		StrictTransitions: c.StrictTransitions,
	}, m)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	return &App{
		config:     c,
		logger:     logger,
		metrics:    m,
		repos:      repos,
		runner:     runner,
		matcher:    matcher,
		workspaces: ws,
		grpc:       srv,
	}, nil
}

func newPhotoStorage(c *config.Config) photos.Storage {
	if c.PhotoStorage == config.PhotosS3 {
		return photos.NewS3Storage(photos.S3Config{
			Region:       c.S3Region,
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	}
	return photos.NewMemoryStorage()
}

// intakeDeps picks the identity resolver and photo inspector: canned ones in
// demo mode, the roster and image decoding otherwise.
func intakeDeps(c *config.Config, store *roster.Store, ps photos.Storage) intake.Deps {
	deps := intake.Deps{Photos: ps}
	if c.DemoMode {
		deps.Resolver = intake.CannedResolver{}
		deps.Inspector = intake.SimulatedInspector{}
	} else {
		deps.Resolver = intake.RosterResolver{Records: store}
		deps.Inspector = intake.DefaultImageInspector()
	}
	return deps
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// serveMetrics exposes /metrics on the configured address until ctx ends.
func (app *App) serveMetrics(ctx context.Context, lis net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.metrics.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	app.logger.Info(ctx, "Starting metrics server", "address", lis.Addr().String())
	go func() {
		serveErr <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	}
}

// Run serves gRPC and metrics until ctx is cancelled, a signal arrives or
// either server fails, then releases timers, sessions and storage.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var metricsLis net.Listener
	if app.config.MetricsAddr != "" {
		lis, err := net.Listen("tcp", app.config.MetricsAddr)
		if err != nil {
			app.shutdown(ctx)
			return fmt.Errorf("metrics listen: %w", err)
		}
		metricsLis = lis
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.grpc.Run(gctx)
	})

	if metricsLis != nil {
		g.Go(func() error {
			return app.serveMetrics(gctx, metricsLis)
		})
	}

	err := g.Wait()
	app.shutdown(ctx)
	return err
}

func (app *App) shutdown(ctx context.Context) {
	app.workspaces.Shutdown()
	app.matcher.Close()
	app.runner.Close()
	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "close storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
