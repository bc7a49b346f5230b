package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-admin-go/pkg/logger"
)

func TestLoadReadsDotEnvWithoutOverridingEnv(t *testing.T) {
	dir := t.TempDir()
	content := "HTTP_PORT=9090\nJWT_SECRET=\"from-file\"\n# comment\nREDIS_DB=3\nCORS_ORIGINS=http://a.test, http://b.test\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("CORS_ORIGINS")
	t.Cleanup(func() {
		os.Unsetenv("REDIS_DB")
		os.Unsetenv("CORS_ORIGINS")
	})

	cfg, err := Load(logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.HTTPPort)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "5s")
	t.Setenv("X_BOOL", "true")

	assert.Equal(t, 4, getEnvInt("X_INT", 4))
	assert.Equal(t, 5*time.Second, getEnvDuration("X_DUR", time.Minute))
	assert.True(t, getEnvBool("X_BOOL", false))
	assert.Equal(t, "fallback", getEnv("X_MISSING_KEY", "fallback"))
}

func TestGetDSN(t *testing.T) {
	cfg := DBConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.GetDSN())

	cfg.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.GetDSN())
}

func TestLocationFallsBackToFixedZone(t *testing.T) {
	cfg := Config{TimeZone: "Not/AZone"}
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, cfg.Location()).Zone()
	assert.Equal(t, 7*60*60, offset)
}
