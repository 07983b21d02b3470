package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/georgemunganga/printa-pos/internal/modules/analytics"
	"github.com/georgemunganga/printa-pos/internal/modules/storage"
)

// Config is everything the register reads from the environment.
type Config struct {
	Port            int
	CatalogPath     string
	Storage         storage.Options
	Location        *time.Location
	DisplayLocation *time.Location
	LogLevel        zapcore.Level

	JWTSecret            string
	OperatorName         string
	OperatorPasswordHash string
}

// Load reads an optional .env file (or the given files) into the process
// environment and then builds a Config from it. Variables already set in
// the environment win over the files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		CatalogPath: getenv("POS_CATALOG_PATH", "data/pos_items.json"),
		Storage: storage.Options{
			Driver:      strings.ToLower(getenv("POS_STORAGE_DRIVER", storage.DriverFile)),
			Path:        getenv("POS_STORAGE_PATH", "data/pos_state.json"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		JWTSecret:            os.Getenv("POS_JWT_SECRET"),
		OperatorName:         getenv("POS_OPERATOR_NAME", "cashier"),
		OperatorPasswordHash: os.Getenv("POS_OPERATOR_PASSWORD_HASH"),
	}

	port, err := strconv.Atoi(getenv("APP_PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("config: APP_PORT must be a port number, got %q", os.Getenv("APP_PORT"))
	}
	cfg.Port = port

	switch cfg.Storage.Driver {
	case storage.DriverMemory, storage.DriverFile, storage.DriverSQLite:
	case storage.DriverPostgres:
		if cfg.Storage.DatabaseURL == "" {
			return nil, errors.New("config: DATABASE_URL is required when POS_STORAGE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("config: unknown POS_STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	if cfg.Location, err = ParseLocation(getenv("POS_TIMEZONE", "Local")); err != nil {
		return nil, fmt.Errorf("config: POS_TIMEZONE: %w", err)
	}
	if raw := os.Getenv("POS_DISPLAY_TIMEZONE"); raw != "" {
		if cfg.DisplayLocation, err = ParseLocation(raw); err != nil {
			return nil, fmt.Errorf("config: POS_DISPLAY_TIMEZONE: %w", err)
		}
	} else {
		cfg.DisplayLocation = analytics.DefaultDisplayLocation()
	}

	if cfg.LogLevel, err = zapcore.ParseLevel(getenv("POS_LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("config: POS_LOG_LEVEL: %w", err)
	}

	if cfg.JWTSecret != "" && cfg.OperatorPasswordHash == "" {
		return nil, errors.New("config: POS_OPERATOR_PASSWORD_HASH is required when POS_JWT_SECRET is set")
	}
	return cfg, nil
}

// ParseLocation accepts an IANA zone name, "Local", "UTC" or a fixed offset
// such as "+07:00".
func ParseLocation(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Local" {
		return time.Local, nil
	}
	if s[0] == '+' || s[0] == '-' {
		t, err := time.Parse("-07:00", s)
		if err != nil {
			return nil, fmt.Errorf("bad offset %q", s)
		}
		_, offset := t.Zone()
		return time.FixedZone("UTC"+s, offset), nil
	}
	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

// AuthEnabled reports whether checkout routes require an operator token.
func (c *Config) AuthEnabled() bool { return c.JWTSecret != "" }

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
