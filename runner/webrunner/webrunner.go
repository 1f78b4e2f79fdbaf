// Package webrunner hosts the JSON API backed by an embedded sqlite store.
package webrunner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gosom/localrank/geo"
	"github.com/gosom/localrank/rediscache"
	"github.com/gosom/localrank/runner"
	"github.com/gosom/localrank/sqlite"
	"github.com/gosom/localrank/tlmt"
	"github.com/gosom/localrank/web"
)

type webrunner struct {
	cfg    *runner.Config
	store  *sqlite.Store
	cache  *rediscache.CoordinateCache
	logger *zap.Logger
}

func New(cfg *runner.Config) (runner.Runner, error) {
	if cfg.RunMode != runner.RunModeWeb {
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}

	if cfg.DataFolder == "" {
		return nil, fmt.Errorf("data folder is required")
	}

	if err := os.MkdirAll(cfg.DataFolder, os.ModePerm); err != nil {
		return nil, err
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

	ans := webrunner{
		cfg:    cfg,
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

func (w *webrunner) Run(ctx context.Context) error {
	evt := tlmt.NewEvent("web_runner", map[string]any{
		"addr": w.cfg.Addr,
	})

	_ = runner.Telemetry().Send(ctx, evt)

	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		err := web.Start(ctx, web.Config{
			Addr:     w.cfg.Addr,
			Store:    w.store,
			Resolver: w.resolver(),
			Logger:   w.logger,
		})

		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	})

	return egroup.Wait()
}

func (w *webrunner) Close(context.Context) error {
	var err error

	if w.cache != nil {
		err = multierr.Append(err, w.cache.Close())
	}

	return multierr.Append(err, w.store.Close())
}

func (w *webrunner) resolver() *geo.Resolver {
	if w.cache == nil {
		return geo.NewResolver()
	}

	return geo.NewResolver(geo.WithCache(w.cache))
}
