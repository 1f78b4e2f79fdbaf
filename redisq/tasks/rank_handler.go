package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/gosom/localrank/entities"
	"github.com/gosom/localrank/geo"
	"github.com/gosom/localrank/ranking"
	"github.com/gosom/localrank/relevance"
)

// NewRankTask creates a rank-search task with the given payload.
func NewRankTask(payload *RankPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rank payload: %w", err)
	}

	return asynq.NewTask(TypeRankSearch, data), nil
}

func (h *Handler) processRankTask(ctx context.Context, task *asynq.Task) error {
	var payload RankPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal rank payload: %w", err)
	}

	if payload.JobID == "" {
		return fmt.Errorf("no job id provided")
	}

	sortMode, err := entities.ParseSortMode(payload.Sort)
	if err != nil {
		return fmt.Errorf("job %s: %w", payload.JobID, err)
	}

	places, err := h.store.SelectPlaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to load places: %w", err)
	}

	ranker := h.rankerFor(payload.Strategy)

	ranked := ranker.Rank(ctx, places, h.referencePoint(ctx, &payload), payload.Filters, sortMode, payload.Query)

	outpath := filepath.Join(h.dataFolder, payload.JobID+".json")

	outfile, err := os.Create(outpath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	defer outfile.Close()

	enc := json.NewEncoder(outfile)
	enc.SetIndent("", "  ")

	if err := enc.Encode(ranked); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	h.logger.Info("rank job done",
		zap.String("job_id", payload.JobID),
		zap.Int("input", len(places)),
		zap.Int("output", len(ranked)),
	)

	return nil
}

func (h *Handler) rankerFor(strategy string) *ranking.Ranker {
	if relevance.Strategy(strategy) == relevance.StrategyCoverage {
		return ranking.New(
			ranking.WithResolver(h.resolver),
			ranking.WithScorer(relevance.NewCoverage()),
		)
	}

	return ranking.New(ranking.WithResolver(h.resolver))
}

func (h *Handler) referencePoint(ctx context.Context, payload *RankPayload) *geo.Coordinate {
	if payload.Lat != nil && payload.Lng != nil {
		c := geo.Coordinate{Lat: *payload.Lat, Lng: *payload.Lng}
		if c.Valid() {
			return &c
		}
	}

	if payload.Location != "" {
		c := h.resolver.Resolve(ctx, payload.Location)

		return &c
	}

	return nil
}
