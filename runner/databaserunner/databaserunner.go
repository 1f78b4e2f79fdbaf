package databaserunner

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/gosom/localrank/config"
	"github.com/gosom/localrank/entities"
	"github.com/gosom/localrank/geo"
	"github.com/gosom/localrank/postgres"
	"github.com/gosom/localrank/ranking"
	"github.com/gosom/localrank/relevance"
	"github.com/gosom/localrank/runner"
	"github.com/gosom/localrank/tlmt"
)

type dbRunner struct {
	cfg     *runner.Config
	conn    *sql.DB
	store   entities.Store
	cfgsvc  *config.Service
	logger  *zap.Logger
	out     io.Writer
	outfile *os.File
}

func New(cfg *runner.Config) (runner.Runner, error) {
	if cfg.RunMode != runner.RunModeDatabase {
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}

	conn, err := sql.Open("pgx", cfg.Dsn)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(10)

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	repo, err := postgres.NewRepository(conn, logger)
	if err != nil {
		return nil, err
	}

	ans := &dbRunner{
		cfg:    cfg,
		conn:   conn,
		store:  repo,
		cfgsvc: config.New(conn),
		logger: logger,
	}

	if err := ans.setOutput(); err != nil {
		return nil, err
	}

	return ans, nil
}

func (r *dbRunner) Run(ctx context.Context) (err error) {
	var (
		places []entities.Place
		ranked []entities.Place
	)

	t0 := time.Now().UTC()

	defer func() {
		elapsed := time.Now().UTC().Sub(t0)
		params := map[string]any{
			"input_count":  len(places),
			"output_count": len(ranked),
			"duration":     elapsed.String(),
		}

		if err != nil {
			params["error"] = err.Error()
		}

		evt := tlmt.NewEvent("database_runner", params)

		_ = runner.Telemetry().Send(ctx, evt)
	}()

	places, err = r.store.SelectPlaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to load places: %w", err)
	}

	sortMode, err := entities.ParseSortMode(r.cfg.Sort)
	if err != nil {
		return err
	}

	ref, err := r.referencePoint(ctx)
	if err != nil {
		return err
	}

	ranked = r.ranker(ctx).Rank(ctx, places, ref, r.cfg.Filters(), sortMode, r.cfg.Query)

	return r.write(ranked)
}

func (r *dbRunner) Close(context.Context) error {
	if r.outfile != nil {
		_ = r.outfile.Close()
	}

	return r.conn.Close()
}

// ranker builds a ranker with the tunables stored in system_config. Falls
// back to the compiled-in defaults when the table is missing or unreadable.
func (r *dbRunner) ranker(ctx context.Context) *ranking.Ranker {
	if relevance.Strategy(r.cfg.Strategy) == relevance.StrategyCoverage {
		threshold, err := r.cfgsvc.CoverageThreshold(ctx)
		if err != nil {
			r.logger.Warn("failed to read coverage threshold, using default", zap.Error(err))

			return ranking.New(ranking.WithScorer(relevance.NewCoverage()))
		}

		return ranking.New(ranking.WithScorer(relevance.NewCoverage(relevance.WithThreshold(threshold))))
	}

	boosts, err := r.cfgsvc.RelevanceBoosts(ctx)
	if err != nil {
		r.logger.Warn("failed to read relevance boosts, using defaults", zap.Error(err))

		return ranking.New()
	}

	return ranking.New(ranking.WithScorer(relevance.NewAdditive(relevance.WithBoosts(boosts))))
}

func (r *dbRunner) referencePoint(ctx context.Context) (*geo.Coordinate, error) {
	if c, err := runner.ParseGeo(r.cfg.GeoCoordinates); err != nil {
		return nil, err
	} else if c != nil {
		return c, nil
	}

	if r.cfg.Location == "" {
		return nil, nil
	}

	c := geo.NewResolver().Resolve(ctx, r.cfg.Location)

	return &c, nil
}

func (r *dbRunner) setOutput() error {
	if r.cfg.ResultsFile == "stdout" {
		r.out = os.Stdout

		return nil
	}

	f, err := os.Create(r.cfg.ResultsFile)
	if err != nil {
		return err
	}

	r.outfile = f
	r.out = f

	return nil
}

func (r *dbRunner) write(places []entities.Place) error {
	if r.cfg.JSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")

		return enc.Encode(places)
	}

	w := csv.NewWriter(r.out)
	defer w.Flush()

	if len(places) == 0 {
		return nil
	}

	if err := w.Write(places[0].CsvHeaders()); err != nil {
		return err
	}

	for i := range places {
		if err := w.Write(places[i].CsvRow()); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}
