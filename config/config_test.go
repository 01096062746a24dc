package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	cfg := LoadConfig()
	assert.Equal(t, "docs", cfg.OutputDir)
	assert.Equal(t, "docs/seen.json", cfg.SeenFile)
	assert.Equal(t, "nicdav09-20", cfg.AffiliateTag)
	assert.Equal(t, "tag", cfg.AffiliateParam)
	assert.Equal(t, 50, cfg.MinDiscountPercent)
	assert.Equal(t, 100, cfg.MaxItems)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 2*time.Second, cfg.HostDelay)
	assert.Equal(t, 3, cfg.FetchConcurrency)
	assert.Equal(t, 720*time.Hour, cfg.SeenRetention)
	assert.Equal(t, "", cfg.MemcacheAddr)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Equal(t, "newdeals", cfg.RedisStream)

	// Test with environment variables
	os.Setenv("OUTPUT_DIR", "public")
	os.Setenv("AFFILIATE_TAG", "other-tag-21")
	os.Setenv("MIN_DISCOUNT_PERCENT", "60")
	os.Setenv("MAX_ITEMS", "25")
	os.Setenv("FETCH_CONCURRENCY", "5")
	os.Setenv("SEEN_RETENTION_HOURS", "24")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")

	cfg = LoadConfig()
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, "public/seen.json", cfg.SeenFile)
	assert.Equal(t, "other-tag-21", cfg.AffiliateTag)
	assert.Equal(t, 60, cfg.MinDiscountPercent)
	assert.Equal(t, 25, cfg.MaxItems)
	assert.Equal(t, 5, cfg.FetchConcurrency)
	assert.Equal(t, 24*time.Hour, cfg.SeenRetention)
	assert.Equal(t, "redis.example.com:6379", cfg.RedisAddr)

	// Clean up
	os.Unsetenv("OUTPUT_DIR")
	os.Unsetenv("AFFILIATE_TAG")
	os.Unsetenv("MIN_DISCOUNT_PERCENT")
	os.Unsetenv("MAX_ITEMS")
	os.Unsetenv("FETCH_CONCURRENCY")
	os.Unsetenv("SEEN_RETENTION_HOURS")
	os.Unsetenv("REDIS_ADDR")
}

func TestValidate(t *testing.T) {
	valid := LoadConfig()
	assert.NoError(t, valid.Validate())

	cfg := LoadConfig()
	cfg.AffiliateTag = ""
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.MinDiscountPercent = 101
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.MinDiscountPercent = -1
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.OutputDir = ""
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.FetchConcurrency = 0
	assert.Error(t, cfg.Validate())
}
