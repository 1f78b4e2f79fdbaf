package filerunner

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gosom/localrank/deduper"
	"github.com/gosom/localrank/entities"
	"github.com/gosom/localrank/geo"
	"github.com/gosom/localrank/ranking"
	"github.com/gosom/localrank/relevance"
	"github.com/gosom/localrank/runner"
	"github.com/gosom/localrank/tlmt"
)

type fileRunner struct {
	cfg     *runner.Config
	places  []entities.Place
	ranker  *ranking.Ranker
	out     io.Writer
	outfile *os.File
}

func New(cfg *runner.Config) (runner.Runner, error) {
	if cfg.RunMode != runner.RunModeFile {
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}

	ans := &fileRunner{
		cfg: cfg,
	}

	if err := ans.setInput(); err != nil {
		return nil, err
	}

	if err := ans.setOutput(); err != nil {
		return nil, err
	}

	ans.setRanker()

	return ans, nil
}

func (r *fileRunner) Run(ctx context.Context) (err error) {
	var ranked []entities.Place

	t0 := time.Now().UTC()

	defer func() {
		elapsed := time.Now().UTC().Sub(t0)
		params := map[string]any{
			"input_count":  len(r.places),
			"output_count": len(ranked),
			"duration":     elapsed.String(),
		}

		if err != nil {
			params["error"] = err.Error()
		}

		evt := tlmt.NewEvent("file_runner", params)

		_ = runner.Telemetry().Send(ctx, evt)
	}()

	ref, err := r.referencePoint(ctx)
	if err != nil {
		return err
	}

	sortMode, err := entities.ParseSortMode(r.cfg.Sort)
	if err != nil {
		return err
	}

	ranked = r.ranker.Rank(ctx, r.places, ref, r.cfg.Filters(), sortMode, r.cfg.Query)

	if err := r.write(ranked); err != nil {
		return err
	}

	if r.cfg.S3Uploader != nil && r.cfg.S3Bucket != "" && r.outfile != nil {
		if err := r.upload(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (r *fileRunner) Close(context.Context) error {
	if r.outfile != nil {
		return r.outfile.Close()
	}

	return nil
}

func (r *fileRunner) setInput() error {
	dedup := deduper.New()

	batches := make([][]entities.Place, 0, len(r.cfg.InputFiles))

	for _, path := range r.cfg.InputFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var batch []entities.Place
		if err := json.Unmarshal(data, &batch); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		batches = append(batches, batch)
	}

	r.places = deduper.MergePlaces(context.Background(), dedup, batches...)

	return nil
}

func (r *fileRunner) setOutput() error {
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

func (r *fileRunner) setRanker() {
	opts := []ranking.Option{}

	if relevance.Strategy(r.cfg.Strategy) == relevance.StrategyCoverage {
		opts = append(opts, ranking.WithScorer(relevance.NewCoverage()))
	}

	r.ranker = ranking.New(opts...)
}

func (r *fileRunner) referencePoint(ctx context.Context) (*geo.Coordinate, error) {
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

func (r *fileRunner) write(places []entities.Place) error {
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

func (r *fileRunner) upload(ctx context.Context) error {
	if err := r.outfile.Sync(); err != nil {
		return err
	}

	f, err := os.Open(r.cfg.ResultsFile)
	if err != nil {
		return err
	}

	defer f.Close()

	return r.cfg.S3Uploader.Upload(ctx, r.cfg.S3Bucket, r.cfg.ResultsFile, f)
}
