package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"dealscout/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Output configuration
	OutputDir string
	SeenFile  string

	// Deal evaluation
	AffiliateTag       string
	AffiliateParam     string
	MinDiscountPercent int
	MaxItems           int

	// Fetcher configuration
	RequestTimeout   time.Duration
	MaxRetries       int
	RetryDelay       time.Duration
	HostDelay        time.Duration
	FetchConcurrency int

	// Seen-set retention window; entries older than this are evicted
	SeenRetention time.Duration

	// Sources file (optional YAML override of the built-in listing URLs)
	SourcesFile string

	// Memcache configuration (optional; in-memory cache when unset)
	MemcacheAddr string

	// Redis configuration for the optional new-deal stream (unset disables it)
	RedisAddr          string
	RedisDB            int
	RedisStream        string
	RedisStreamMaxLen  int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	minDiscount, _ := strconv.Atoi(getEnv("MIN_DISCOUNT_PERCENT", "50"))
	maxItems, _ := strconv.Atoi(getEnv("MAX_ITEMS", "100"))
	maxRetries, _ := strconv.Atoi(getEnv("FETCH_MAX_RETRIES", "3"))
	retryDelay, _ := strconv.Atoi(getEnv("FETCH_RETRY_DELAY_SECONDS", "2"))
	hostDelay, _ := strconv.Atoi(getEnv("FETCH_HOST_DELAY_SECONDS", "2"))
	timeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "15"))
	concurrency, _ := strconv.Atoi(getEnv("FETCH_CONCURRENCY", "3"))
	retention, _ := strconv.Atoi(getEnv("SEEN_RETENTION_HOURS", "720"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))

	outputDir := getEnv("OUTPUT_DIR", "docs")

	return Config{
		OutputDir:          outputDir,
		SeenFile:           filepath.Join(outputDir, "seen.json"),
		AffiliateTag:       getEnv("AFFILIATE_TAG", "nicdav09-20"),
		AffiliateParam:     getEnv("AFFILIATE_PARAM", "tag"),
		MinDiscountPercent: minDiscount,
		MaxItems:           maxItems,
		RequestTimeout:     time.Duration(timeout) * time.Second,
		MaxRetries:         maxRetries,
		RetryDelay:         time.Duration(retryDelay) * time.Second,
		HostDelay:          time.Duration(hostDelay) * time.Second,
		FetchConcurrency:   concurrency,
		SeenRetention:      time.Duration(retention) * time.Hour,
		SourcesFile:        getEnv("SOURCES_FILE", ""),
		MemcacheAddr:       getEnv("MEMCACHE_ADDR", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisDB:            redisDB,
		RedisStream:        getEnv("REDIS_STREAM", "newdeals"),
		RedisStreamMaxLen:  redisMaxLen,
		Environment:        getEnv("DEALSCOUT_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.NewConfiguration("output directory must not be empty", nil)
	}
	if c.AffiliateTag == "" {
		return errors.NewConfiguration("affiliate tag must not be empty", nil)
	}
	if c.AffiliateParam == "" {
		return errors.NewConfiguration("affiliate parameter name must not be empty", nil)
	}
	if c.MinDiscountPercent < 0 || c.MinDiscountPercent > 100 {
		return errors.NewConfiguration("minimum discount percent must be in [0, 100]", nil)
	}
	if c.MaxItems <= 0 {
		return errors.NewConfiguration("max items must be positive", nil)
	}
	if c.FetchConcurrency <= 0 {
		return errors.NewConfiguration("fetch concurrency must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
