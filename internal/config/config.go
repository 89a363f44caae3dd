// Package config loads the database target configuration for the rowmodel
// CLI. Precedence (highest to lowest): flags > env vars > config file >
// defaults.
package config

import (
	"fmt"

	"github.com/leapstack-labs/rowmodel/pkg/gateway"
)

// Default configuration values.
const (
	DefaultType = gateway.TypePostgres
	DefaultHost = "localhost"
	DefaultPort = 5432
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "rowmodel.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "rowmodel.yml"

// Config holds CLI configuration.
type Config struct {
	Type     string `koanf:"type"`     // postgres, sqlite
	Path     string `koanf:"path"`     // sqlite file path, :memory: for in-memory
	Host     string `koanf:"host"`     // network engine host
	Port     int    `koanf:"port"`     // network engine port
	Database string `koanf:"database"` // database name
	User     string `koanf:"user"`     // login
	Password string `koanf:"password"` // credential
	Verbose  bool   `koanf:"verbose"`  // debug logging

	// Options contains additional driver-specific options (e.g. sslmode)
	Options map[string]string `koanf:"options"`
}

// Target converts the loaded configuration into a gateway target.
func (c *Config) Target() gateway.Config {
	return gateway.Config{
		Type:     c.Type,
		Path:     c.Path,
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		Username: c.User,
		Password: c.Password,
		Options:  c.Options,
	}
}

// Validate checks that the configuration names a usable target.
func (c *Config) Validate() error {
	switch c.Type {
	case gateway.TypePostgres:
		if c.Database == "" {
			return fmt.Errorf("database name is required for postgres targets")
		}
		return nil
	case gateway.TypeSQLite:
		return nil
	case "":
		return fmt.Errorf("target type is required")
	default:
		return fmt.Errorf("unknown target type %q (supported: %s, %s)",
			c.Type, gateway.TypePostgres, gateway.TypeSQLite)
	}
}
