// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config loads the service configuration from an optional YAML
// file and applies environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when RUSTACEANS_CONFIG is not set.
const DefaultFile = "rustaceans.yaml"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Addr     string   `yaml:"addr"`
	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	Log      Log      `yaml:"log"`
}

type Database struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

type Auth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the configuration used when neither file nor environment
// say otherwise. Credentials have no default.
func Default() *Config {
	return &Config{
		Addr: ":8000",
		Database: Database{
			DSN:             "rustaceans.sqlite",
			MaxOpenConns:    100,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 10 * time.Minute,
		},
		Log: Log{
			Level:  "warn",
			Format: "console",
			File:   "rustaceans.log",
		},
	}
}

// Load reads the file named by RUSTACEANS_CONFIG (or DefaultFile), applies
// environment overrides and validates the result. A missing file is not an
// error.
func Load() (*Config, error) {
	path := os.Getenv("RUSTACEANS_CONFIG")
	if path == "" {
		path = DefaultFile
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = InferDriver(cfg.Database.DSN)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Addr, "RUSTACEANS_ADDR")
	setString(&c.Database.Driver, "RUSTACEANS_DB_DRIVER")
	setString(&c.Database.DSN, "DATABASE_URL")
	setString(&c.Database.DSN, "RUSTACEANS_DB_DSN")
	setString(&c.Auth.Username, "RUSTACEANS_AUTH_USERNAME")
	setString(&c.Auth.Password, "RUSTACEANS_AUTH_PASSWORD")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	if v, ok := os.LookupEnv("LOG_FILE"); ok {
		c.Log.File = v
	}

	if err := setInt(&c.Database.MaxOpenConns, "RUSTACEANS_DB_MAX_OPEN_CONNS"); err != nil {
		return err
	}
	if err := setInt(&c.Database.MaxIdleConns, "RUSTACEANS_DB_MAX_IDLE_CONNS"); err != nil {
		return err
	}
	if err := setDuration(&c.Database.ConnMaxLifetime, "RUSTACEANS_DB_CONN_MAX_LIFETIME"); err != nil {
		return err
	}
	return setDuration(&c.Database.ConnMaxIdleTime, "RUSTACEANS_DB_CONN_MAX_IDLE_TIME")
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if c.Database.DSN == "" {
		return errors.New("config: database dsn is required")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return errors.New("config: pool sizes must not be negative")
	}
	if c.Auth.Username == "" || c.Auth.Password == "" {
		return errors.New("config: auth username and password are required")
	}
	return nil
}

// InferDriver guesses the driver from the shape of a DSN.
func InferDriver(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}
