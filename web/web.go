package web

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/gosom/localrank/entities"
	"github.com/gosom/localrank/geo"
	"github.com/gosom/localrank/web/internal/server"
)

type Config struct {
	Addr     string
	Debug    bool
	Store    entities.Store
	Resolver *geo.Resolver
	Logger   *zap.Logger
}

func Start(ctx context.Context, cfg Config) error {
	e := echo.New()
	e.Debug = cfg.Debug
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Logger.SetOutput(os.Stderr)

	opts := []server.Option{}

	if cfg.Resolver != nil {
		opts = append(opts, server.WithResolver(cfg.Resolver))
	}

	if cfg.Logger != nil {
		opts = append(opts, server.WithLogger(cfg.Logger))
	}

	srv := server.NewServer(cfg.Store, opts...)

	server.RegisterHandlers(e, srv)

	go func() {
		<-ctx.Done()
		_ = e.Shutdown(context.Background())
	}()

	return e.Start(cfg.Addr)
}
