package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const baseEnv = `JWT_SECRET=super-secret-key
DB_HOSTNAME=localhost
DB_USER=postgres
DB_NAME=college
`

func TestSettingsFromFile(t *testing.T) {
	cfg := NewViperFromFile(writeEnv(t, baseEnv+"WS_OPERATION_TIMEOUT=3s\n"))

	settings, err := cfg.Settings(validator.New())
	require.NoError(t, err)

	assert.Equal(t, "college-chat", settings.AppName)
	assert.Equal(t, ":7720", settings.AppPort)
	assert.Equal(t, "5432", settings.DBPort)
	assert.Equal(t, BusDriverMemory, settings.BusDriver)
	assert.Equal(t, 3*time.Second, settings.OperationTimeout)
	assert.Equal(t, 128, settings.SendBuffer)
	assert.Equal(t, []byte("super-secret-key"), cfg.GetJwtConfig())
}

func TestSettingsFallBackToEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret-key")
	t.Setenv("DB_HOSTNAME", "db")
	t.Setenv("DB_USER", "chat")
	t.Setenv("DB_NAME", "chat")

	cfg := NewViperFromFile(filepath.Join(t.TempDir(), "missing.env"))
	settings, err := cfg.Settings(validator.New())
	require.NoError(t, err)
	assert.Equal(t, "db", settings.DBHost)
	assert.Equal(t, "env-secret-key", settings.JwtSecret)
}

func TestSettingsRequireRedisURLForRedisBus(t *testing.T) {
	cfg := NewViperFromFile(writeEnv(t, baseEnv+"BUS_DRIVER=redis\n"))

	_, err := cfg.Settings(validator.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RedisURL")
}

func TestSettingsRejectUnknownBusDriver(t *testing.T) {
	cfg := NewViperFromFile(writeEnv(t, baseEnv+"BUS_DRIVER=nats\n"))

	_, err := cfg.Settings(validator.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BusDriver")
}

func TestSettingsRequireMinioCredentialsWithEndpoint(t *testing.T) {
	cfg := NewViperFromFile(writeEnv(t, baseEnv+"MINIO_ENDPOINT=localhost:9000\n"))

	_, err := cfg.Settings(validator.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MinioAccessKey")
}
