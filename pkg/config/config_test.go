package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "http://localhost:8080", cfg.Enrollment.BaseURL)
	assert.Zero(t, cfg.Enrollment.SubmitTimeout)
	assert.Equal(t, 8080, cfg.Stub.Port)
	assert.Empty(t, cfg.Stub.FullBatches)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromEnvironment(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("ENROLL_API_BASE_URL", "https://yoga.example.com/api")
	t.Setenv("SUBMIT_TIMEOUT", "15s")
	t.Setenv("STUB_FULL_BATCHES", "2, 4,x")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://yoga.example.com/api", cfg.Enrollment.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Enrollment.SubmitTimeout)
	assert.Equal(t, []int{2, 4}, cfg.Stub.FullBatches)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("-5s", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
