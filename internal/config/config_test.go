package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
port = 9000
log_level = "debug"
seed_enabled = true
cache_enabled = true

[production]
port = 8080
backend = "postgres"
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "localblog"
cascade_deletes = true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, testConfigToml)

	devCfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, 9000, devCfg.Port)
	assert.Equal(t, "debug", devCfg.LogLevel)
	assert.Equal(t, BackendMemory, devCfg.Backend)
	assert.Equal(t, "localblog", devCfg.Namespace)
	assert.Equal(t, 6, devCfg.SeedCount)
	assert.Equal(t, 10*1024*1024, devCfg.CacheSizeBytes)
	assert.Equal(t, 30, devCfg.CacheTTLSeconds)
	assert.False(t, devCfg.CascadeDeletes)

	prodCfg, err := Load("production", path)
	require.NoError(t, err)
	assert.Equal(t, 8080, prodCfg.Port)
	assert.Equal(t, BackendPostgres, prodCfg.Backend)
	assert.Equal(t, "db", prodCfg.PostgresHost)
	assert.Equal(t, "postgres", prodCfg.PostgresUser)
	assert.True(t, prodCfg.CascadeDeletes)
}

func TestLoad_Errors(t *testing.T) {
	testCases := map[string]struct {
		env     string
		content string
		invalid bool
	}{
		"unknown env": {
			env:     "staging",
			content: testConfigToml,
		},
		"missing section": {
			env:     "prod",
			content: "[development]\nport = 1\n",
			invalid: true,
		},
		"broken toml": {
			env:     "dev",
			content: "[development\nport = ",
		},
		"unknown backend": {
			env:     "dev",
			content: "[development]\nport = 1\nbackend = \"etcd\"\n",
			invalid: true,
		},
		"redis without address": {
			env:     "dev",
			content: "[development]\nport = 1\nbackend = \"redis\"\n",
			invalid: true,
		},
		"no port": {
			env:     "dev",
			content: "[development]\nbackend = \"memory\"\n",
			invalid: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(tc.env, writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			if tc.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}

	_, err := Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_RepoConfig(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		cfg, err := Load(env, "../../config.toml")
		require.NoError(t, err, env)
		assert.NotZero(t, cfg.Port)
	}
}
