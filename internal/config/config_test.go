package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, BackendFile, cfg.Progress.Backend)
	assert.Equal(t, 25, cfg.Quiz.ExamSize)
	assert.Equal(t, 2*time.Hour, cfg.Quiz.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.Quiz.SweepInterval)
	assert.Equal(t, 120.0, cfg.Circuit.VoltageMax)
	assert.Equal(t, 2, cfg.Circuit.Decimals)

	assert.ErrorIs(t, cfg.RequireTelegram(), ErrMissingEnvironmentVariables)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("BASIC_AUTH_USER", "pilot")
	t.Setenv("BASIC_AUTH_PASS", "secret")
	t.Setenv("PROGRESS_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/ap")
	t.Setenv("QUIZ_EXAM_SIZE", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.NoError(t, cfg.RequireTelegram())
	assert.Equal(t, "pilot", cfg.HTTP.BasicAuthUser)
	assert.Equal(t, "secret", cfg.HTTP.BasicAuthPass)
	assert.Equal(t, BackendPostgres, cfg.Progress.Backend)
	assert.Equal(t, 10, cfg.Quiz.ExamSize)

	dsn, err := cfg.DB.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/ap", dsn)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"memory", Config{Progress: Progress{Backend: BackendMemory}}, nil},
		{"postgres without url", Config{Progress: Progress{Backend: BackendPostgres}}, ErrMissingEnvironmentVariables},
		{"unknown backend", Config{Progress: Progress{Backend: "redis"}}, ErrUnknownProgressBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
