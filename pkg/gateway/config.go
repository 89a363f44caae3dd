package gateway

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "modernc.org/sqlite"             // sqlite driver
)

// Supported target types.
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Config describes the database target for Connect.
type Config struct {
	// Type selects the engine: "postgres" or "sqlite".
	Type string

	// Path is the database file for sqlite; ":memory:" for in-memory.
	Path string

	// Host and Port locate a network engine.
	Host string
	Port int

	// Database is the database name.
	Database string

	// Username and Password authenticate the connection.
	Username string
	Password string

	// Options holds additional driver-specific options (e.g. sslmode).
	Options map[string]string
}

// dsn returns the driver name and connection string for the target.
func (c Config) dsn() (driver, dsn string, err error) {
	switch c.Type {
	case TypePostgres:
		return "pgx", c.postgresDSN(), nil
	case TypeSQLite:
		path := c.Path
		if path == "" {
			path = ":memory:"
		}
		return "sqlite", path, nil
	case "":
		return "", "", fmt.Errorf("target type is required")
	default:
		return "", "", fmt.Errorf("unknown target type %q", c.Type)
	}
}

// postgresDSN builds a key=value connection string.
func (c Config) postgresDSN() string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}

	port := c.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if c.Options != nil {
		if mode, ok := c.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, c.Database, sslmode)

	if c.Username != "" {
		dsn += fmt.Sprintf(" user=%s", c.Username)
	}
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}

	return dsn
}
