package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gorecurrence/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resolve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
addr: "127.0.0.1:9000"
log_level: debug
mcp: stdio
metrics: false
max_terms: 50
max_order: 12
read_timeout: 2s
`))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, config.MCPStdio, cfg.MCP)
	assert.False(t, cfg.Metrics)
	assert.Equal(t, 50, cfg.MaxTerms)
	assert.Equal(t, 12, cfg.MaxOrder)
	assert.Equal(t, 2*time.Second, cfg.ReadTimeout)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":  "addr: [",
		"mcp mode":  "mcp: grpc",
		"log level": "log_level: loud",
		"max terms": "max_terms: 0",
		"max order": "max_order: 100000",
		"body":      "max_body_bytes: -1",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := config.Default()
	cfg.Addr = ""
	cfg.MCP = "grpc"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "addr is required")
	assert.Contains(t, err.Error(), "mcp must be one of")
}
