package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090
read_timeout = 5
write_timeout = 10
shutdown_timeout = 15

[database]
host = "localhost"
port = 5432
user = "bookly"
password = "secret"
dbname = "bookly"

[redis]
enabled = true
addr = "localhost:6379"

[logs]
file = "app.log"
level = "info"

[metrics]
enabled = true
service_name = "bookly"

[notifier]
url = "http://localhost:9000/hooks"

[scheduling]
max_service_gap_minutes = 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "bookly", cfg.Database.DBName)
	assert.Equal(t, 30, cfg.Scheduling.MaxServiceGapMinutes)

	// Дефолты для незаполненных полей
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 60, cfg.Redis.TTLSeconds)
	assert.Equal(t, 5, cfg.Notifier.Timeout)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	// Пути и TTL выключенных подсистем не подставляются
	assert.Empty(t, cfg.Metrics.Path)
	assert.Zero(t, cfg.Redis.TTLSeconds)
	assert.Zero(t, cfg.Notifier.Timeout)
}

func TestLoad_NegativeServiceGap(t *testing.T) {
	_, err := Load(writeConfig(t, `
[scheduling]
max_service_gap_minutes = -1
`))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := Database{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "bookly", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=bookly sslmode=disable", d.DSN())
}
