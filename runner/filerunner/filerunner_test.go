package filerunner_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosom/localrank/entities"
	"github.com/gosom/localrank/runner"
	"github.com/gosom/localrank/runner/filerunner"
)

func writeInput(t *testing.T, places []entities.Place) string {
	t.Helper()

	data, err := json.Marshal(places)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func ptr[T any](v T) *T { return &v }

func Test_FileRunner_CSVOutput(t *testing.T) {
	t.Setenv("DISABLE_TELEMETRY", "1")

	input := writeInput(t, []entities.Place{
		{ID: "1", Name: "Salon A", Rating: 4.9},
		{ID: "2", Name: "Cafe B", Rating: 4.2},
		{ID: "3", Name: "Salon C", Rating: 3.8},
	})

	results := filepath.Join(t.TempDir(), "out.csv")

	cfg := &runner.Config{
		RunMode:     runner.RunModeFile,
		InputFiles:  []string{input},
		ResultsFile: results,
		Sort:        "rating",
		MinRating:   4,
	}

	r, err := filerunner.New(cfg)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))
	require.NoError(t, r.Close(context.Background()))

	f, err := os.Open(results)
	require.NoError(t, err)

	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	require.Equal(t, "id", rows[0][0])
	require.Equal(t, "Salon A", rows[1][1])
	require.Equal(t, "Cafe B", rows[2][1])
}

func Test_FileRunner_JSONOutputWithDistance(t *testing.T) {
	t.Setenv("DISABLE_TELEMETRY", "1")

	input := writeInput(t, []entities.Place{
		{ID: "1", Name: "Near", Latitude: ptr(12.98), Longitude: ptr(77.60)},
		{ID: "2", Name: "Far", Latitude: ptr(13.10), Longitude: ptr(77.80)},
	})

	results := filepath.Join(t.TempDir(), "out.json")

	cfg := &runner.Config{
		RunMode:        runner.RunModeFile,
		InputFiles:     []string{input},
		ResultsFile:    results,
		JSON:           true,
		Sort:           "distance",
		GeoCoordinates: "12.9716,77.5946",
	}

	r, err := filerunner.New(cfg)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))
	require.NoError(t, r.Close(context.Background()))

	data, err := os.ReadFile(results)
	require.NoError(t, err)

	var got []entities.Place
	require.NoError(t, json.Unmarshal(data, &got))

	require.Len(t, got, 2)
	require.Equal(t, "Near", got[0].Name)
	require.NotNil(t, got[0].DistanceKm)
	require.Less(t, *got[0].DistanceKm, *got[1].DistanceKm)
}

func Test_FileRunner_MergesInputsWithoutDuplicates(t *testing.T) {
	t.Setenv("DISABLE_TELEMETRY", "1")

	first := writeInput(t, []entities.Place{
		{ID: "1", Name: "Salon A", Rating: 4.5},
		{ID: "2", Name: "Cafe B", Rating: 4.0},
	})
	second := writeInput(t, []entities.Place{
		{ID: "2", Name: "Cafe B copy", Rating: 1.0},
		{ID: "3", Name: "Salon C", Rating: 3.5},
	})

	results := filepath.Join(t.TempDir(), "out.json")

	cfg := &runner.Config{
		RunMode:     runner.RunModeFile,
		InputFiles:  []string{first, second},
		ResultsFile: results,
		JSON:        true,
		Sort:        "rating",
	}

	r, err := filerunner.New(cfg)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))
	require.NoError(t, r.Close(context.Background()))

	data, err := os.ReadFile(results)
	require.NoError(t, err)

	var got []entities.Place
	require.NoError(t, json.Unmarshal(data, &got))

	require.Len(t, got, 3)
	require.Equal(t, "Salon A", got[0].Name)
	require.Equal(t, "Cafe B", got[1].Name)
	require.Equal(t, "Salon C", got[2].Name)
}

func Test_FileRunner_RejectsWrongRunMode(t *testing.T) {
	_, err := filerunner.New(&runner.Config{RunMode: runner.RunModeWeb})
	require.ErrorIs(t, err, runner.ErrInvalidRunMode)
}

func Test_FileRunner_MissingInputFile(t *testing.T) {
	cfg := &runner.Config{
		RunMode:    runner.RunModeFile,
		InputFiles: []string{filepath.Join(t.TempDir(), "missing.json")},
	}

	_, err := filerunner.New(cfg)
	require.Error(t, err)
}
