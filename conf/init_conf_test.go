package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "conf_test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func clearTokenEnv(t *testing.T) {
	t.Helper()
	t.Setenv("VERCEL_TOKEN", "")
	t.Setenv("SNAPSHIP_VERCEL_TOKEN", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	clearTokenEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, "localhost:"+DefaultPort, cfg.Server.SwaggerBaseUrl)
	assert.Equal(t, DefaultMaxSizeMB, cfg.Upload.MaxSizeMB)
	assert.EqualValues(t, DefaultMaxSizeMB*1024*1024, cfg.Upload.MaxSize)
	assert.Equal(t, os.TempDir(), cfg.Upload.TempDir)
	assert.Equal(t, DefaultFieldName, cfg.Upload.FieldName)
	assert.Equal(t, DefaultVercelApiUrl, cfg.Vercel.ApiUrl)
	assert.Equal(t, DefaultProjectPrefix, cfg.Vercel.ProjectPrefix)
	assert.Equal(t, DefaultTimeout, cfg.Vercel.TimeoutSeconds)
	assert.True(t, cfg.Vercel.Public)
	assert.Empty(t, cfg.Vercel.Token)
	assert.True(t, cfg.History.Enable)
	assert.Equal(t, DefaultRetentionDays, cfg.History.RetentionDays)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	clearTokenEnv(t)

	path := writeConfig(t, `
server:
  port: "8080"
upload:
  max_size_mb: 5
  temp_dir: /var/tmp/snapship
vercel:
  project_prefix: demo
  timeout_seconds: 15
  public: false
history:
  enable: false
log:
  level: warn
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.EqualValues(t, 5*1024*1024, cfg.Upload.MaxSize)
	assert.Equal(t, "/var/tmp/snapship", cfg.Upload.TempDir)
	assert.Equal(t, "demo", cfg.Vercel.ProjectPrefix)
	assert.Equal(t, 15, cfg.Vercel.TimeoutSeconds)
	assert.False(t, cfg.Vercel.Public)
	assert.False(t, cfg.History.Enable)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigTokenFromEnv(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("VERCEL_TOKEN", "  legacy-token \n")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "legacy-token", cfg.Vercel.Token)

	t.Setenv("SNAPSHIP_VERCEL_TOKEN", "prefixed-token")
	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed-token", cfg.Vercel.Token)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("SNAPSHIP_SERVER_PORT", "9000")

	cfg, err := LoadConfig(writeConfig(t, "server:\n  port: \"8080\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestInitConfigSetsGlobal(t *testing.T) {
	clearTokenEnv(t)
	previous := Cfg
	t.Cleanup(func() { Cfg = previous })

	require.NoError(t, InitConfig(""))
	require.NotNil(t, Cfg)
	assert.Equal(t, DefaultPort, Cfg.Server.Port)
}

func TestGetYaml(t *testing.T) {
	previous := SystemEnvironmentEnum
	t.Cleanup(func() { SystemEnvironmentEnum = previous })

	SystemEnvironmentEnum = ProductEnvironmentEnum
	assert.Equal(t, "./conf/conf_prod.yaml", GetYaml())
}
