package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andrebq/taskbox/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskbox.lua")
	err := os.WriteFile(path, []byte(`
local port = 9000
taskbox = {
	bind = "127.0.0.1:" .. tostring(port),
	database = "/var/lib/taskbox",
	token_store = "memory",
	token_ttl = "24h",
	bcrypt_cost = 12,
	log_pretty = true,
	allowed_origin = "http://localhost:5173, http://localhost:3000",
}
`), 0600)
	require.NoError(t, err)

	cfg, err := LoadFile(path, Default())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Bind)
	assert.Equal(t, "/var/lib/taskbox", cfg.Database)
	assert.Equal(t, auth.TokenStoreMemory, cfg.TokenStore)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, "info", cfg.LogLevel, "keys missing from the file keep the base value")
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Origins())

	ttl, err := cfg.TTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TASKBOX_TEST_BIND", "0.0.0.0:8080")
	cfg, err := Load("env.lua", `taskbox = { bind = env("TASKBOX_TEST_BIND", "x"), database = env("TASKBOX_TEST_UNSET", "/data") }`, Default())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Bind)
	assert.Equal(t, "/data", cfg.Database)
}

func TestLoadSandbox(t *testing.T) {
	for name, code := range map[string]string{
		"dofile":   `dofile("/etc/passwd") taskbox = {}`,
		"loadfile": `loadfile("/etc/passwd") taskbox = {}`,
		"os":       `os.exit(1) taskbox = {}`,
		"io":       `io.open("/etc/passwd") taskbox = {}`,
		"require":  `require("os") taskbox = {}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(name, code, Default())
			require.Error(t, err)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("missing.lua", `local x = 1`, Default())
	require.Error(t, err)

	_, err = Load("scalar.lua", `taskbox = "nope"`, Default())
	require.Error(t, err)

	_, err = Load("syntax.lua", `taskbox = {`, Default())
	require.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.lua"), Default())
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	bad := Default()
	bad.TokenStore = "redis"
	bad.TokenTTL = "-1h"
	bad.BcryptCost = 2
	bad.Bind = ""
	err := bad.Validate()
	require.Error(t, err)
	for _, field := range []string{"token_store", "token_ttl", "bcrypt_cost", "bind"} {
		assert.Contains(t, err.Error(), field)
	}

	unparsable := Default()
	unparsable.TokenTTL = "forever"
	require.Error(t, unparsable.Validate())
}
