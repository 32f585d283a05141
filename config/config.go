package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Portal configuration
	PortalURL string
	Region    string

	// Query letters to crawl; empty means the full a-z sweep
	Queries string

	// Browser configuration
	Headless   bool
	NavTimeout time.Duration

	// Extraction loop configuration
	MaxScrollCycles int
	ActionDelay     time.Duration

	// Advanced mode: visit every advertiser detail page for creative URLs
	Advanced bool

	// Export configuration
	OutputDir string
	CSVName   string // empty means a timestamped name
	JSONName  string // empty means a timestamped name
	SQLite    string // empty disables the snapshot database

	// Redis configuration (optional record stream)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration (optional visit cache)
	MemcacheAddr string
	VisitTTL     time.Duration

	// Dashboard configuration
	DashboardAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	maxCycles, _ := strconv.Atoi(getEnv("MAX_SCROLL_CYCLES", "10"))
	delayMs, _ := strconv.Atoi(getEnv("ACTION_DELAY_MS", "2000"))
	navTimeout, _ := strconv.Atoi(getEnv("NAV_TIMEOUT_SECONDS", "30"))
	visitTTL, _ := strconv.Atoi(getEnv("VISIT_CACHE_TTL_SECONDS", "86400"))

	return Config{
		PortalURL:            getEnv("PORTAL_URL", "https://adstransparency.google.com"),
		Region:               getEnv("REGION", "anywhere"),
		Queries:              getEnv("QUERY_LETTERS", ""),
		Headless:             getEnv("HEADLESS", "true") == "true",
		NavTimeout:           time.Duration(navTimeout) * time.Second,
		MaxScrollCycles:      maxCycles,
		ActionDelay:          time.Duration(delayMs) * time.Millisecond,
		Advanced:             getEnv("ADVANCED_MODE", "false") == "true",
		OutputDir:            getEnv("OUTPUT_DIR", "results"),
		CSVName:              getEnv("OUTPUT_CSV", ""),
		JSONName:             getEnv("OUTPUT_JSON", ""),
		SQLite:               getEnv("SQLITE_PATH", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "advertisers"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		VisitTTL:             time.Duration(visitTTL) * time.Second,
		DashboardAddr:        getEnv("DASHBOARD_ADDR", ":8080"),
		Environment:          getEnv("ADSCRAPER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable before any crawling starts
func (c *Config) Validate() error {
	if c.PortalURL == "" {
		return fmt.Errorf("portal URL must not be empty")
	}
	if c.Region == "" {
		return fmt.Errorf("region must not be empty")
	}
	if c.MaxScrollCycles < 1 {
		return fmt.Errorf("max scroll cycles must be at least 1, got %d", c.MaxScrollCycles)
	}
	if c.ActionDelay < 0 {
		return fmt.Errorf("action delay must not be negative")
	}
	for _, r := range c.Queries {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return fmt.Errorf("query letters must be alphabetic, got %q", c.Queries)
		}
	}
	if c.RedisAddr != "" && c.RedisStreamCount < 1 {
		return fmt.Errorf("redis stream count must be at least 1, got %d", c.RedisStreamCount)
	}
	return nil
}

// QueryList returns the configured query letters as a slice, or nil for the
// default a-z sweep
func (c *Config) QueryList() []string {
	if c.Queries == "" {
		return nil
	}
	return strings.Split(strings.ToLower(c.Queries), "")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
