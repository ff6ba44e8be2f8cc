package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	Address string `env:"ADDRESS" envDefault:"0.0.0.0:8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	DBHost            string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort            string        `env:"DB_PORT" envDefault:"5432"`
	DBUser            string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword        string        `env:"DB_PASSWORD" envDefault:"password"`
	DBName            string        `env:"DB_NAME" envDefault:"fsa_tracker"`
	DBSSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBTimeZone        string        `env:"DB_TIMEZONE" envDefault:"UTC"`
	DBConnectAttempts int           `env:"DB_CONNECT_ATTEMPTS" envDefault:"5"`
	DBConnectDelay    time.Duration `env:"DB_CONNECT_DELAY" envDefault:"2s"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"72h"`

	// Remote document store (Frappe-style RPC).
	RemoteBaseURL   string        `env:"REMOTE_BASE_URL,required"`
	RemoteAPIKey    string        `env:"REMOTE_API_KEY"`
	RemoteAPISecret string        `env:"REMOTE_API_SECRET"`
	RemoteTimeout   time.Duration `env:"REMOTE_TIMEOUT" envDefault:"30s"`

	LocateTimeout  time.Duration `env:"LOCATE_TIMEOUT" envDefault:"10s"`
	ScanTimeout    time.Duration `env:"SCAN_TIMEOUT" envDefault:"5s"`
	LocationMaxAge time.Duration `env:"LOCATION_MAX_AGE" envDefault:"5m"`

	LocationRetentionDays int           `env:"LOCATION_RETENTION_DAYS" envDefault:"30"`
	RetentionInterval     time.Duration `env:"RETENTION_INTERVAL" envDefault:"1h"`
	RouteCacheTTL         time.Duration `env:"ROUTE_CACHE_TTL" envDefault:"24h"`

	ActivityCatalogPath string   `env:"ACTIVITY_CATALOG_PATH"`
	CORSOrigins         []string `env:"CORS_ORIGINS" envSeparator:","`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"10"` // megabytes
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	LogMaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7"` // days
}

// Load reads .env files (if present) and parses the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		logrus.Debug("No .env file found, relying on env vars")
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// DSN builds the Postgres data source name.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimeZone,
	)
}

// LocationRetention is how long GPS pings are kept.
func (c *Config) LocationRetention() time.Duration {
	return time.Duration(c.LocationRetentionDays) * 24 * time.Hour
}
