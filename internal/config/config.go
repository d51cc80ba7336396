package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config holds the application settings read from the environment.
type Config struct {
	DB *DBConfig

	// ServerPort is the HTTP listen port (default 3000).
	ServerPort string

	// JWTSecret signs and verifies bearer tokens. Required.
	JWTSecret string
	// JWTExpirationHours is the token lifetime (default 360, i.e. 15 days).
	JWTExpirationHours int64

	// AdherenceWindowDays limits the adherence count to the last N calendar
	// days including today. 0 counts every logged day.
	AdherenceWindowDays int

	// RedisAddr enables the Redis relay for real-time events when set.
	RedisAddr     string
	RedisPassword string

	// AuthRatePerMinute and AuthRateBurst bound /signup and /login per client IP.
	AuthRatePerMinute int
	AuthRateBurst     int

	// TrustedProxies lists proxy IPs/CIDRs allowed to set X-Forwarded-For.
	// Empty means the socket address is the client IP.
	TrustedProxies []string

	LogLevel  string
	LogFormat string
}

// Load reads the configuration. It fails when a required variable is missing.
func Load() (*Config, error) {
	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}

	jwtExpHours := int64(360)
	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			logrus.Warnf("Invalid JWT_EXPIRATION_HOURS %q, defaulting to %d", v, jwtExpHours)
		} else {
			jwtExpHours = n
		}
	}

	return &Config{
		DB:                  dbCfg,
		ServerPort:          getEnv("SERVER_PORT", "3000"),
		JWTSecret:           jwtSecret,
		JWTExpirationHours:  jwtExpHours,
		AdherenceWindowDays: getEnvInt("ADHERENCE_WINDOW_DAYS", 0),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		AuthRatePerMinute:   getEnvInt("AUTH_RATE_PER_MINUTE", 10),
		AuthRateBurst:       getEnvInt("AUTH_RATE_BURST", 5),
		TrustedProxies:      getEnvList("TRUSTED_PROXIES"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}, nil
}

// SetupLogging configures the global logrus logger.
func SetupLogging(level, format string) {
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown LOG_LEVEL %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
