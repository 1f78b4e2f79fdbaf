package runner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosom/localrank/runner"
)

func Test_ParseGeo(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLat float64
		wantLng float64
		wantNil bool
		wantErr bool
	}{
		{name: "empty", input: "", wantNil: true},
		{name: "valid", input: "12.9716,77.5946", wantLat: 12.9716, wantLng: 77.5946},
		{name: "spaces", input: " 12.9716 , 77.5946 ", wantLat: 12.9716, wantLng: 77.5946},
		{name: "negative", input: "-33.8688,151.2093", wantLat: -33.8688, wantLng: 151.2093},
		{name: "missing part", input: "12.9716", wantErr: true},
		{name: "too many parts", input: "1,2,3", wantErr: true},
		{name: "not numbers", input: "a,b", wantErr: true},
		{name: "latitude out of range", input: "91,0", wantErr: true},
		{name: "longitude out of range", input: "0,181", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runner.ParseGeo(tt.input)

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)

			if tt.wantNil {
				require.Nil(t, got)

				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.wantLat, got.Lat)
			assert.Equal(t, tt.wantLng, got.Lng)
		})
	}
}

func Test_ConfigFilters(t *testing.T) {
	cfg := runner.Config{
		MinRating:     4,
		MaxDistanceKm: 10,
		MaxPriceLevel: 2,
		OpenNow:       true,
		RequiredFlags: []string{"verified"},
	}

	filters := cfg.Filters()

	assert.Equal(t, 4.0, filters.MinRating)
	assert.Equal(t, 10.0, filters.MaxDistanceKm)
	assert.Equal(t, 2, filters.MaxPriceLevel)
	assert.True(t, filters.OpenNowOnly)
	assert.Equal(t, []string{"verified"}, filters.RequiredFlags)
}
