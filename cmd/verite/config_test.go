// cmd/verite/config_test.go
package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	require.Equal(t, DefaultAIModel, cfg.AIModel)
	require.Equal(t, 30*time.Second, cfg.AITimeout())
	require.True(t, cfg.EnableDatabase)
	require.True(t, cfg.EnableURLExtraction)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("VERITE_ENABLE_DATABASE", "false")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	require.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	require.False(t, cfg.EnableDatabase)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `listen_addr: ":9090"
admin_token: file-token
enable_database: false
ai_model: gpt-4o-mini
ai_timeout_seconds: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, "file-token", cfg.AdminToken)
	require.Equal(t, "gpt-4o-mini", cfg.AIModel)
	require.Equal(t, 10*time.Second, cfg.AITimeout())
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `listen_addr: ":9090"
enable_database: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("VERITE_LISTEN_ADDR", ":7070")
	t.Setenv("VERITE_ADMIN_TOKEN", "env-token")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VERITE_AI_TIMEOUT_SECONDS", "5")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.ListenAddr)
	require.Equal(t, "env-token", cfg.AdminToken)
	require.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	require.Equal(t, 5, cfg.AITimeoutSeconds)
}

func TestConfigValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableDatabase = true
	cfg.DatabaseURL = ""
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.EnableDatabase = false
	cfg.AITimeoutSeconds = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.EnableDatabase = false
	cfg.AITemperature = 3.5
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.EnableDatabase = false
	require.NoError(t, cfg.Validate())
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("VERITE_TEST_STRING", "hello")
	t.Setenv("VERITE_TEST_INT", "42")
	t.Setenv("VERITE_TEST_BOOL", "true")
	t.Setenv("VERITE_TEST_FLOAT", "0.25")
	t.Setenv("VERITE_TEST_SLICE", "a, b ,c")

	require.Equal(t, "hello", GetEnvString("VERITE_TEST_STRING", "fallback"))
	require.Equal(t, "fallback", GetEnvString("VERITE_TEST_UNSET", "fallback"))

	require.Equal(t, 42, GetEnvInt("VERITE_TEST_INT", 1))
	require.Equal(t, 1, GetEnvInt("VERITE_TEST_STRING", 1))

	require.True(t, GetEnvBool("VERITE_TEST_BOOL", false))
	require.False(t, GetEnvBool("VERITE_TEST_UNSET", false))

	require.Equal(t, 0.25, GetEnvFloat("VERITE_TEST_FLOAT", 1.0))

	require.Equal(t, []string{"a", "b", "c"}, GetEnvStringSlice("VERITE_TEST_SLICE", nil))
}
