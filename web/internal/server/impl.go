package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gosom/localrank/entities"
	"github.com/gosom/localrank/geo"
	"github.com/gosom/localrank/ranking"
	"github.com/gosom/localrank/relevance"
)

type server struct {
	store    entities.Store
	resolver *geo.Resolver
	logger   *zap.Logger
}

var _ Server = (*server)(nil)

type Option func(*server)

func WithResolver(r *geo.Resolver) Option {
	return func(s *server) { s.resolver = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *server) { s.logger = l }
}

func NewServer(store entities.Store, opts ...Option) Server {
	ans := server{
		store:    store,
		resolver: geo.NewResolver(),
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&ans)
	}

	return &ans
}

func (s *server) Health(c echo.Context) error {
	count, err := s.store.CountPlaces(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"places": count,
	})
}

func (s *server) ListPlaces(c echo.Context) error {
	places, err := s.store.SelectPlaces(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"count":  len(places),
		"places": places,
	})
}

// ImportRequest is the bulk import payload. Rows may come straight from one
// of the backing tables; Source selects the adapter applied to them. An empty
// Source means the rows already have the canonical shape.
type ImportRequest struct {
	Source string           `json:"source"`
	Rows   []map[string]any `json:"rows"`
	Places []entities.Place `json:"places"`
}

func (s *server) ImportPlaces(c echo.Context) error {
	var req ImportRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	places := req.Places

	for _, row := range req.Rows {
		switch req.Source {
		case "", "business":
			places = append(places, entities.PlaceFromBusinessRow(row))
		case "listing":
			places = append(places, entities.PlaceFromListingRow(row))
		case "event":
			places = append(places, entities.PlaceFromEventRow(row))
		default:
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown source: %s", req.Source))
		}
	}

	if len(places) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no places provided")
	}

	for i := range places {
		if places[i].ID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "place without id")
		}
	}

	if err := s.store.UpsertPlaces(c.Request().Context(), places); err != nil {
		s.logger.Error("import failed", zap.Error(err))

		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"imported": len(places),
	})
}

// SearchRequest carries the ranking parameters for one search.
type SearchRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`

	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`

	Sort     string `json:"sort"`
	Strategy string `json:"strategy"`

	MinRating     float64  `json:"min_rating"`
	MaxDistanceKm float64  `json:"max_distance_km"`
	MaxPriceLevel int      `json:"max_price_level"`
	OpenNow       bool     `json:"open_now"`
	Flags         []string `json:"flags"`
}

func (s *server) Search(c echo.Context) error {
	var req SearchRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sortMode, err := entities.ParseSortMode(req.Sort)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid sort mode: %s", req.Sort))
	}

	places, err := s.store.SelectPlaces(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	filters := entities.FilterConfig{
		MinRating:     req.MinRating,
		MaxDistanceKm: req.MaxDistanceKm,
		MaxPriceLevel: req.MaxPriceLevel,
		OpenNowOnly:   req.OpenNow,
		RequiredFlags: req.Flags,
	}

	ranked := s.ranker(req.Strategy).Rank(
		c.Request().Context(),
		places,
		s.referencePoint(c, &req),
		filters,
		sortMode,
		req.Query,
	)

	return c.JSON(http.StatusOK, map[string]any{
		"count":  len(ranked),
		"places": ranked,
	})
}

func (s *server) ranker(strategy string) *ranking.Ranker {
	if relevance.Strategy(strategy) == relevance.StrategyCoverage {
		return ranking.New(
			ranking.WithResolver(s.resolver),
			ranking.WithScorer(relevance.NewCoverage()),
		)
	}

	return ranking.New(ranking.WithResolver(s.resolver))
}

func (s *server) referencePoint(c echo.Context, req *SearchRequest) *geo.Coordinate {
	if req.Lat != nil && req.Lng != nil {
		coord := geo.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
		if coord.Valid() {
			return &coord
		}
	}

	if req.Location == "" {
		return nil
	}

	coord := s.resolver.Resolve(c.Request().Context(), req.Location)

	return &coord
}
