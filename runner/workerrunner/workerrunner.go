// Package workerrunner consumes rank jobs from redis and writes result
// files for each finished job.
package workerrunner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gosom/localrank/exiter"
	"github.com/gosom/localrank/geo"
	"github.com/gosom/localrank/rediscache"
	"github.com/gosom/localrank/redisq"
	"github.com/gosom/localrank/redisq/config"
	"github.com/gosom/localrank/redisq/tasks"
	"github.com/gosom/localrank/runner"
	"github.com/gosom/localrank/sqlite"
	"github.com/gosom/localrank/tlmt"
)

type workerRunner struct {
	cfg    *runner.Config
	rcfg   *config.RedisConfig
	store  *sqlite.Store
	cache  *rediscache.CoordinateCache
	logger *zap.Logger
}

func New(cfg *runner.Config) (runner.Runner, error) {
	if cfg.RunMode != runner.RunModeWorker {
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}

	if cfg.DataFolder == "" {
		return nil, fmt.Errorf("data folder is required")
	}

	if err := os.MkdirAll(cfg.DataFolder, os.ModePerm); err != nil {
		return nil, err
	}

	rcfg, err := config.NewRedisConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load redis config: %w", err)
	}

	store, err := sqlite.New(filepath.Join(cfg.DataFolder, "places.db"))
	if err != nil {
		return nil, err
	}

	if err := store.AutoMigrate(context.Background()); err != nil {
		return nil, err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	ans := workerRunner{
		cfg:    cfg,
		rcfg:   rcfg,
		store:  store,
		logger: logger,
	}

	if cfg.RedisAddr != "" {
		ans.cache = rediscache.New(rediscache.Options{
			Addr:   cfg.RedisAddr,
			Logger: logger,
		})
	}

	return &ans, nil
}

func (w *workerRunner) Run(ctx context.Context) error {
	evt := tlmt.NewEvent("worker_runner", map[string]any{
		"queues": len(config.DefaultQueuePriorities),
	})

	_ = runner.Telemetry().Send(ctx, evt)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exitMonitor := exiter.New(w.cfg.ExitOnInactivityDuration, w.logger)
	exitMonitor.SetCancelFunc(cancel)

	handler := tasks.NewHandler(w.store, w.cfg.DataFolder,
		tasks.WithResolver(w.resolver()),
		tasks.WithLogger(w.logger),
		tasks.WithProcessedCallback(exitMonitor.Notify),
	)

	srv := redisq.NewServer(w.rcfg, w.logger)

	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		exitMonitor.Run(ctx)

		return nil
	})

	egroup.Go(func() error {
		return srv.Start(ctx, handler)
	})

	return egroup.Wait()
}

func (w *workerRunner) Close(context.Context) error {
	var err error

	if w.cache != nil {
		err = multierr.Append(err, w.cache.Close())
	}

	return multierr.Append(err, w.store.Close())
}

func (w *workerRunner) resolver() *geo.Resolver {
	if w.cache == nil {
		return geo.NewResolver()
	}

	return geo.NewResolver(geo.WithCache(w.cache))
}
