package runner

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/gosom/localrank/entities"
	"github.com/gosom/localrank/geo"
	"github.com/gosom/localrank/s3uploader"
	"github.com/gosom/localrank/tlmt"
	"github.com/gosom/localrank/tlmt/gonoop"
	"github.com/gosom/localrank/tlmt/goposthog"
)

const (
	RunModeFile = iota + 1
	RunModeDatabase
	RunModeWeb
	RunModeWorker
)

var (
	ErrInvalidRunMode = errors.New("invalid run mode")
)

type Runner interface {
	Run(context.Context) error
	Close(context.Context) error
}

type S3Uploader interface {
	Upload(ctx context.Context, bucketName, key string, body io.Reader) error
}

type Config struct {
	InputFiles               []string
	ResultsFile              string
	JSON                     bool
	Query                    string
	Location                 string
	GeoCoordinates           string
	Sort                     string
	Strategy                 string
	MinRating                float64
	MaxDistanceKm            float64
	MaxPriceLevel            int
	OpenNow                  bool
	RequiredFlags            []string
	Dsn                      string
	DataFolder               string
	Addr                     string
	RedisAddr                string
	WebRunner                bool
	WorkerRunner             bool
	ExitOnInactivityDuration time.Duration
	DisableTelemetry         bool
	RunMode                  int
	AwsAccessKey             string
	AwsSecretKey             string
	AwsRegion                string
	S3Bucket                 string
	S3Uploader               S3Uploader
}

func ParseConfig() *Config {
	cfg := Config{}

	var (
		inputs string
		flags  string
	)

	flag.StringVar(&inputs, "input", "", "comma separated paths to JSON files with places [default: empty]")
	flag.StringVar(&cfg.ResultsFile, "results", "stdout", "path to the results file [default: stdout]")
	flag.BoolVar(&cfg.JSON, "json", false, "produce JSON output instead of CSV")
	flag.StringVar(&cfg.Query, "query", "", "search text used for relevance scoring")
	flag.StringVar(&cfg.Location, "location", "", "location text to resolve (area name, postal code, plus code or maps link)")
	flag.StringVar(&cfg.GeoCoordinates, "geo", "", "set reference coordinates directly (e.g., '12.9716,77.5946')")
	flag.StringVar(&cfg.Sort, "sort", "rating", "sort mode: rating, distance, review_count, newest or relevance")
	flag.StringVar(&cfg.Strategy, "strategy", "additive", "relevance strategy: additive or coverage")
	flag.Float64Var(&cfg.MinRating, "min-rating", 0, "keep places rated at or above this value (0-5)")
	flag.Float64Var(&cfg.MaxDistanceKm, "max-distance", 0, "keep places within this many km of the reference point (0 = unlimited)")
	flag.IntVar(&cfg.MaxPriceLevel, "max-price-level", 0, "keep places at or below this price level (1-4, 0 = unlimited)")
	flag.BoolVar(&cfg.OpenNow, "open-now", false, "keep only places open at the current time")
	flag.StringVar(&flags, "flags", "", "comma separated boolean flags a place must have (e.g., 'verified,hiddenGem')")
	flag.StringVar(&cfg.Dsn, "dsn", "", "database connection string [only valid with database provider]")
	flag.StringVar(&cfg.DataFolder, "data-folder", "webdata", "data folder for web and worker runners")
	flag.StringVar(&cfg.Addr, "addr", ":8080", "address to listen on for web server")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", "", "redis address for the coordinate cache (empty disables it)")
	flag.BoolVar(&cfg.WebRunner, "web", false, "run web server instead of a one-shot ranking")
	flag.BoolVar(&cfg.WorkerRunner, "worker", false, "run background worker consuming rank jobs from redis")
	flag.DurationVar(&cfg.ExitOnInactivityDuration, "exit-on-inactivity", 0, "exit after inactivity duration (e.g., '5m')")
	flag.BoolVar(&cfg.DisableTelemetry, "disable-telemetry", false, "disable anonymous usage telemetry")
	flag.StringVar(&cfg.AwsAccessKey, "aws-access-key", "", "AWS access key")
	flag.StringVar(&cfg.AwsSecretKey, "aws-secret-key", "", "AWS secret key")
	flag.StringVar(&cfg.AwsRegion, "aws-region", "", "AWS region")
	flag.StringVar(&cfg.S3Bucket, "s3-bucket", "", "S3 bucket to upload results to")

	flag.Parse()

	if cfg.AwsAccessKey == "" {
		cfg.AwsAccessKey = os.Getenv("MY_AWS_ACCESS_KEY")
	}

	if cfg.AwsSecretKey == "" {
		cfg.AwsSecretKey = os.Getenv("MY_AWS_SECRET_KEY")
	}

	if cfg.AwsRegion == "" {
		cfg.AwsRegion = os.Getenv("MY_AWS_REGION")
	}

	if inputs != "" {
		cfg.InputFiles = strings.Split(inputs, ",")
	}

	if flags != "" {
		cfg.RequiredFlags = strings.Split(flags, ",")
	}

	if _, err := entities.ParseSortMode(cfg.Sort); err != nil {
		panic(fmt.Sprintf("invalid sort mode: %s", cfg.Sort))
	}

	if cfg.MaxDistanceKm < 0 {
		panic("max-distance must not be negative")
	}

	if cfg.MaxPriceLevel < 0 || cfg.MaxPriceLevel > 4 {
		panic("max-price-level must be between 0 and 4")
	}

	if cfg.AwsAccessKey != "" && cfg.AwsSecretKey != "" && cfg.AwsRegion != "" {
		uploader, err := s3uploader.New(cfg.AwsAccessKey, cfg.AwsSecretKey, cfg.AwsRegion)
		if err != nil {
			panic(err)
		}

		cfg.S3Uploader = uploader
	}

	switch {
	case cfg.WorkerRunner:
		cfg.RunMode = RunModeWorker
	case cfg.WebRunner || (cfg.Dsn == "" && len(cfg.InputFiles) == 0):
		cfg.RunMode = RunModeWeb
	case cfg.Dsn == "":
		cfg.RunMode = RunModeFile
	default:
		cfg.RunMode = RunModeDatabase
	}

	return &cfg
}

// Filters builds the filter set the ranking pipeline expects from the
// parsed flags.
func (c *Config) Filters() entities.FilterConfig {
	return entities.FilterConfig{
		MinRating:     c.MinRating,
		MaxDistanceKm: c.MaxDistanceKm,
		MaxPriceLevel: c.MaxPriceLevel,
		OpenNowOnly:   c.OpenNow,
		RequiredFlags: c.RequiredFlags,
	}
}

// ParseGeo parses a 'lat,lng' pair. Returns nil for an empty string.
func ParseGeo(s string) (*geo.Coordinate, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid geo coordinates: %s", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %s", parts[0])
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %s", parts[1])
	}

	ans := geo.Coordinate{Lat: lat, Lng: lng}
	if !ans.Valid() || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("coordinates out of range: %s", s)
	}

	return &ans, nil
}

var (
	telemetryOnce sync.Once
	telemetry     tlmt.Telemetry
)

func Telemetry() tlmt.Telemetry {
	telemetryOnce.Do(func() {
		disableTel := os.Getenv("DISABLE_TELEMETRY") == "1"

		if disableTel {
			telemetry = gonoop.New()

			return
		}

		val, err := goposthog.New("phc_CHYBGEd1eJZzDE7ZWhyiSFuXa9KMLRnaYN47aoIAY2A", "https://eu.i.posthog.com")
		if err != nil || val == nil {
			telemetry = gonoop.New()

			return
		}

		telemetry = val
	})

	return telemetry
}

func wrapText(text string, width int) []string {
	var lines []string

	currentLine := ""
	currentWidth := 0

	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width {
			lines = append(lines, currentLine)
			currentLine = string(r)
			currentWidth = runeWidth
		} else {
			currentLine += string(r)
			currentWidth += runeWidth
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func banner(messages []string, width int) string {
	if width <= 0 {
		var err error

		width, _, err = term.GetSize(0)
		if err != nil {
			width = 80
		}
	}

	if width < 20 {
		width = 20
	}

	contentWidth := width - 4

	var wrappedLines []string
	for _, message := range messages {
		wrappedLines = append(wrappedLines, wrapText(message, contentWidth)...)
	}

	var builder strings.Builder

	builder.WriteString("╔" + strings.Repeat("═", width-2) + "╗\n")

	for _, line := range wrappedLines {
		lineWidth := runewidth.StringWidth(line)
		paddingRight := contentWidth - lineWidth

		if paddingRight < 0 {
			paddingRight = 0
		}

		builder.WriteString(fmt.Sprintf("║ %s%s ║\n", line, strings.Repeat(" ", paddingRight)))
	}

	builder.WriteString("╚" + strings.Repeat("═", width-2) + "╝\n")

	return builder.String()
}

func Banner() {
	message1 := "📍 LocalRank"
	message2 := "⭐ If you find this project useful, please star it on GitHub: https://github.com/gosom/localrank"

	fmt.Fprintln(os.Stderr, banner([]string{message1, message2}, 0))
}
