package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	PublicBaseURL      string
	LogLevel           string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool

	// Contact form (Formspree)
	ContactEndpoint      string
	ContactFallbackEmail string
	ContactTimeout       time.Duration
	ContactMaxPerHour    int

	// Hero chat demo
	DemoVertical            string
	DemoTypeSpeed           time.Duration
	DemoThinkMin            time.Duration
	DemoThinkMax            time.Duration
	DemoUserDelay           time.Duration
	DemoConfirmDelay        time.Duration
	DemoAutostartFallback   time.Duration
	DemoVisibilityThreshold float64

	// Landing page metrics, "label|target;label|target"
	SiteMetrics string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),

		ContactEndpoint:      getEnv("CONTACT_ENDPOINT", ""),
		ContactFallbackEmail: getEnv("CONTACT_FALLBACK_EMAIL", "hello@mozbe.ai"),
		ContactTimeout:       getEnvAsDuration("CONTACT_TIMEOUT", 10*time.Second),
		ContactMaxPerHour:    getEnvAsInt("CONTACT_MAX_PER_HOUR", 5),

		DemoVertical:            strings.ToLower(strings.TrimSpace(getEnv("DEMO_VERTICAL", "nails"))),
		DemoTypeSpeed:           getEnvAsDuration("DEMO_TYPE_SPEED", 16*time.Millisecond),
		DemoThinkMin:            getEnvAsDuration("DEMO_THINK_MIN", 700*time.Millisecond),
		DemoThinkMax:            getEnvAsDuration("DEMO_THINK_MAX", 1100*time.Millisecond),
		DemoUserDelay:           getEnvAsDuration("DEMO_USER_DELAY", 350*time.Millisecond),
		DemoConfirmDelay:        getEnvAsDuration("DEMO_CONFIRM_DELAY", 250*time.Millisecond),
		DemoAutostartFallback:   getEnvAsDuration("DEMO_AUTOSTART_FALLBACK", 1500*time.Millisecond),
		DemoVisibilityThreshold: getEnvAsFloat("DEMO_VISIBILITY_THRESHOLD", 0.1),

		SiteMetrics: getEnv("SITE_METRICS", "Bookings captured|1200;Missed calls recovered (%)|98.5;Avg. reply time (s)|2"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
