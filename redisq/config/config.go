// Package config provides redis connection configuration for the background
// rank-job queue.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// RedisConfig holds redis connection and worker parameters.
type RedisConfig struct {
	Host          string
	Port          int
	Password      string
	DB            int
	Workers       int
	RetryInterval time.Duration
	MaxRetries    int

	QueuePriorities map[string]int
}

const (
	defaultHost          = "localhost"
	defaultPort          = 6379
	defaultDB            = 0
	defaultWorkers       = 10
	defaultRetryInterval = 5 * time.Second
	defaultMaxRetries    = 3

	minPort    = 1
	maxPort    = 65535
	minDB      = 0
	maxDB      = 15
	minWorkers = 1
	maxWorkers = 100
)

// DefaultQueuePriorities defines the priority settings for task queues.
var DefaultQueuePriorities = map[string]int{
	"critical": 6,
	"default":  3,
	"low":      1,
}

// NewRedisConfig creates a redis configuration from environment variables.
// REDIS_URL wins over individual REDIS_* variables when set.
func NewRedisConfig() (*RedisConfig, error) {
	cfg := &RedisConfig{
		Host:            getEnvOrDefault("REDIS_HOST", defaultHost),
		Password:        os.Getenv("REDIS_PASSWORD"),
		RetryInterval:   defaultRetryInterval,
		MaxRetries:      defaultMaxRetries,
		QueuePriorities: make(map[string]int),
	}

	for queue, priority := range DefaultQueuePriorities {
		cfg.QueuePriorities[queue] = priority
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		if err := cfg.applyURL(redisURL); err != nil {
			return nil, err
		}
	} else {
		port, err := validateRange("port", getEnvOrDefault("REDIS_PORT", strconv.Itoa(defaultPort)), minPort, maxPort)
		if err != nil {
			return nil, err
		}

		cfg.Port = port

		db, err := validateRange("DB", getEnvOrDefault("REDIS_DB", strconv.Itoa(defaultDB)), minDB, maxDB)
		if err != nil {
			return nil, err
		}

		cfg.DB = db
	}

	workers, err := validateRange("workers", getEnvOrDefault("REDIS_WORKERS", strconv.Itoa(defaultWorkers)), minWorkers, maxWorkers)
	if err != nil {
		return nil, err
	}

	cfg.Workers = workers

	return cfg, nil
}

func (c *RedisConfig) applyURL(raw string) error {
	parsedURL, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid redis URL: %w", err)
	}

	if host := parsedURL.Hostname(); host != "" {
		c.Host = host
	}

	if port := parsedURL.Port(); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid port in redis URL: %w", err)
		}

		c.Port = p
	} else {
		c.Port = defaultPort
	}

	if password, ok := parsedURL.User.Password(); ok {
		c.Password = password
	}

	if path := strings.TrimPrefix(parsedURL.Path, "/"); path != "" {
		db, err := strconv.Atoi(path)
		if err != nil {
			return fmt.Errorf("invalid database number in redis URL: %w", err)
		}

		c.DB = db
	}

	return nil
}

// GetRedisAddr returns the formatted redis address.
func (c *RedisConfig) GetRedisAddr() string {
	host := c.Host
	if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
		host = "[" + host + "]"
	}

	return fmt.Sprintf("%s:%d", host, c.Port)
}

func validateRange(name, value string, minVal, maxVal int) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, err)
	}

	if v < minVal || v > maxVal {
		return 0, fmt.Errorf("%s must be between %d and %d", name, minVal, maxVal)
	}

	return v, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}
