package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name         string
		cfg          Config
		expectDriver string
		expectDSN    string
		expectErr    string
	}{
		{
			name: "postgres with defaults",
			cfg: Config{
				Type:     TypePostgres,
				Database: "demo",
			},
			expectDriver: "pgx",
			expectDSN:    "host=localhost port=5432 dbname=demo sslmode=disable",
		},
		{
			name: "postgres fully specified",
			cfg: Config{
				Type:     TypePostgres,
				Host:     "db.internal",
				Port:     5433,
				Database: "demo",
				Username: "app",
				Password: "secret",
				Options:  map[string]string{"sslmode": "require"},
			},
			expectDriver: "pgx",
			expectDSN:    "host=db.internal port=5433 dbname=demo sslmode=require user=app password=secret",
		},
		{
			name:         "sqlite with path",
			cfg:          Config{Type: TypeSQLite, Path: "demo.db"},
			expectDriver: "sqlite",
			expectDSN:    "demo.db",
		},
		{
			name:         "sqlite defaults to in-memory",
			cfg:          Config{Type: TypeSQLite},
			expectDriver: "sqlite",
			expectDSN:    ":memory:",
		},
		{
			name:      "empty type",
			cfg:       Config{},
			expectErr: "target type is required",
		},
		{
			name:      "unknown type",
			cfg:       Config{Type: "mysql"},
			expectErr: `unknown target type "mysql"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := tt.cfg.dsn()
			if tt.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectDriver, driver)
			assert.Equal(t, tt.expectDSN, dsn)
		})
	}
}
