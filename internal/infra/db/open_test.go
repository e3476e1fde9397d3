package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionConfigFromEnv(t *testing.T) {
	keys := []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME", "DB_APPLICATION_NAME"}
	tests := []struct {
		name string
		env  map[string]string
		want ConnectionConfig
	}{
		{
			name: "defaults",
			want: ConnectionConfig{MaxOpenConns: 25, MaxIdleConns: 10, ConnMaxLifetime: time.Hour, ConnMaxIdleTime: 30 * time.Minute, ApplicationName: "tnsystems-site"},
		},
		{
			name: "overrides",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "50",
				"DB_MAX_IDLE_CONNS":     "20",
				"DB_CONN_MAX_LIFETIME":  "2h",
				"DB_CONN_MAX_IDLE_TIME": "5m",
				"DB_APPLICATION_NAME":   "site-worker",
			},
			want: ConnectionConfig{MaxOpenConns: 50, MaxIdleConns: 20, ConnMaxLifetime: 2 * time.Hour, ConnMaxIdleTime: 5 * time.Minute, ApplicationName: "site-worker"},
		},
		{
			name: "non-positive and malformed values are ignored",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":    "lots",
				"DB_MAX_IDLE_CONNS":    "-3",
				"DB_CONN_MAX_LIFETIME": "0s",
			},
			want: DefaultConnectionConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range keys {
				t.Setenv(k, tt.env[k])
			}
			assert.Equal(t, tt.want, ConnectionConfigFromEnv())
		})
	}
}

func TestOpen_Rejects(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "", DefaultConnectionConfig())
	assert.ErrorContains(t, err, "DATABASE_URL not set")

	_, err = Open(context.Background(), "postgres://site:pw@localhost:notaport/site", DefaultConnectionConfig())
	assert.ErrorContains(t, err, "parse DATABASE_URL")
}

func TestOpen_Integration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := Open(context.Background(), dsn, DefaultConnectionConfig())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var name string
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT current_setting('application_name')").Scan(&name))
	assert.Equal(t, "tnsystems-site", name)
}
