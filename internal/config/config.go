package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"Realty Sales Dashboard v1.0"`
	Port    string `env:"PORT" envDefault:"3000"`

	Database struct {
		Driver     string `env:"DB_DRIVER" envDefault:"postgres"` // postgres | sqlite
		URL        string `env:"DATABASE_URL"`
		Host       string `env:"DB_HOST" envDefault:"localhost"`
		User       string `env:"DB_USER" envDefault:"postgres"`
		Password   string `env:"DB_PASSWORD"`
		Name       string `env:"DB_NAME" envDefault:"realty"`
		Port       string `env:"DB_PORT" envDefault:"5432"`
		TimeZone   string `env:"DB_TIMEZONE" envDefault:"Australia/Adelaide"`
		LogLevel   string `env:"DB_LOG_LEVEL" envDefault:"warn"`
		SQLitePath string `env:"SQLITE_PATH" envDefault:"realty.db"`
	}

	JWT struct {
		Secret   string `env:"JWT_SECRET" envDefault:"your-super-secret-key-change-in-production"`
		TTLHours int    `env:"JWT_TTL_HOURS" envDefault:"24"`
	}

	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"text"` // text | json
	}

	Stats struct {
		// Rolling window the persisted snapshot covers.
		Period string `env:"STATS_PERIOD" envDefault:"12m"`

		// Statuses counted as sales. Empty counts every transaction in scope.
		CountStatuses []string `env:"STATS_COUNT_STATUSES" envSeparator:","`

		// Run load+compute+upsert inside one serializable transaction.
		StrictRefresh bool `env:"STATS_STRICT_REFRESH" envDefault:"false"`

		RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"5m"`
	}

	Report struct {
		MaxWidgets    int           `env:"REPORT_MAX_WIDGETS" envDefault:"60"`
		TopLimit      int           `env:"REPORT_TOP_LIMIT" envDefault:"10"`
		ChromeBin     string        `env:"CHROME_BIN"`
		ExportTimeout time.Duration `env:"EXPORT_TIMEOUT" envDefault:"45s"`
	}

	Seed struct {
		AdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@example.com"`
		AdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"admin123"`
	}
}

// Load reads the .env file (if any) and parses the environment into Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cleaned := cfg.Stats.CountStatuses[:0]
	for _, s := range cfg.Stats.CountStatuses {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	cfg.Stats.CountStatuses = cleaned

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return "host=" + c.Database.Host +
		" user=" + c.Database.User +
		" password=" + c.Database.Password +
		" dbname=" + c.Database.Name +
		" port=" + c.Database.Port +
		" sslmode=disable TimeZone=" + c.Database.TimeZone
}

// NewLogger builds the application logger from the log settings.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if strings.EqualFold(c.Log.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
