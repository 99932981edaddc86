package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvPepstats, EnvPolicy, EnvLogLevel, EnvToolTimeout} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// emptyEnvFile keeps a stray ./.env out of the test.
func emptyEnvFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(emptyEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultPepstats, cfg.Pepstats)
	assert.Equal(t, PolicyStrict, cfg.Policy)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Zero(t, cfg.ToolTimeout)
}

func TestLoadFromDotenv(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PPP_PEPSTATS=/opt/emboss/bin/pepstats\nPPP_POLICY=lenient\nPPP_TOOL_TIMEOUT=90s\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "/opt/emboss/bin/pepstats", cfg.Pepstats)
	assert.Equal(t, PolicyLenient, cfg.Policy)
	assert.Equal(t, 90*time.Second, cfg.ToolTimeout)
}

func TestEnvironmentWinsOverDotenv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPolicy, "STRICT")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PPP_POLICY=lenient\n"), 0o644))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, cfg.Policy)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "UnknownPolicy", key: EnvPolicy, value: "whatever"},
		{name: "BadTimeout", key: EnvToolTimeout, value: "soon"},
		{name: "NegativeTimeout", key: EnvToolTimeout, value: "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(emptyEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitEnvFile(t *testing.T) {
	clearEnv(t)

	missing := filepath.Join(t.TempDir(), "missing.env")
	cfg, err := Load(missing)
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "load env file")
}
