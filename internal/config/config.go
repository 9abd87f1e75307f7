package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Env     string
	Port    string
	GinMode string

	// Database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTIssuer        string
	JWTAudience      string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	// Redis backs the rate limiter; an empty address disables it.
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RateLimitPerMinute int

	CORSAllowedOrigins string
	HTTPLogEnabled     bool

	// AllowAdminSignup lets anonymous callers of PUT /user/ create admin accounts.
	AllowAdminSignup bool
}

func Load() *Config {
	return &Config{
		Env:     getEnv("APP_ENV", "development"),
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "task_manager.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "taskuser"),
		DBPassword: getEnv("DB_PASSWORD", "taskpassword"),
		DBName:     getEnv("DB_NAME", "task_management"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTAccessSecret:  getEnv("JWT_ACCESS_SECRET", "dev-access-secret-change-me"),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", "dev-refresh-secret-change-me"),
		JWTIssuer:        getEnv("JWT_ISSUER", "task-assignment-api"),
		JWTAudience:      getEnv("JWT_AUDIENCE", "task-assignment-clients"),
		AccessTTL:        getDuration("JWT_ACCESS_TTL", 5*time.Minute),
		RefreshTTL:       getDuration("JWT_REFRESH_TTL", 24*time.Hour),

		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getInt("REDIS_DB", 0),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 120),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		HTTPLogEnabled:     getBool("HTTP_LOG_ENABLED", true),

		AllowAdminSignup: getBool("ALLOW_ADMIN_SIGNUP", true),
	}
}

// CORSOrigins returns the allowed origins as a slice
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logrus.Warnf("invalid boolean for %s: %v, using default %v", key, err, defaultValue)
			return defaultValue
		}
		return b
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			logrus.Warnf("invalid int for %s: %v, using default %d", key, err, defaultValue)
			return defaultValue
		}
		return i
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			logrus.Warnf("invalid duration for %s: %v, using default %v", key, err, defaultValue)
			return defaultValue
		}
		return d
	}
	return defaultValue
}
