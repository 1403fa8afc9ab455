package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Armin-kho/satta-result-bot/internal/markets"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"BOT_TOKEN", "SRB_BOT_TOKEN", "GROUP_CHAT_ID", "SRB_CHAT_ID", "DATA_DIR", "SRB_DATA_DIR", "SRB_STATE_BACKEND", "SRB_STATE_FILE"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SRB_DATA_DIR", dir)

	cfg, err := Load(filepath.Join(dir, "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.StateBackend)
	assert.Equal(t, filepath.Join(dir, "last_sent.json"), cfg.StateFile)
	assert.Equal(t, "05:20", cfg.SummaryCutoff)
	assert.True(t, cfg.SendSummary)
	assert.True(t, cfg.DryRun())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, `{
		"bot_token": "from-file",
		"chat_id": "-100123",
		"data_dir": "`+dir+`",
		"state_backend": "sqlite",
		"slot_gating": true,
		"extra_aliases": {"DSWR": "disawer"}
	}`)
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.BotToken)
	assert.Equal(t, "-100123", cfg.ChatID)
	assert.Equal(t, filepath.Join(dir, "bot.db"), cfg.StateFile)
	assert.True(t, cfg.SlotGating)
	assert.False(t, cfg.DryRun())

	m, ok := markets.NewNormalizer(cfg.Aliases()).Normalize("dswr")
	assert.True(t, ok)
	assert.Equal(t, markets.Disawer, m)
}

func TestLoadDotEnvChoosesConfigPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, `{"state_backend": "sqlite", "bot_token": "from-file"}`)
	for _, k := range []string{"SRB_CONFIG", "SRB_DATA_DIR"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SRB_CONFIG="+path+"\nSRB_DATA_DIR="+dir+"\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.BotToken)
	assert.Equal(t, filepath.Join(dir, "bot.db"), cfg.StateFile)
}

func TestLoadInvalidJSON(t *testing.T) {
	_, err := Load(writeConfig(t, `{"bot_token":`))
	assert.ErrorContains(t, err, "invalid config json")
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"backend", func(c *Config) { c.StateBackend = "redis" }, "unknown state_backend"},
		{"cutoff", func(c *Config) { c.SummaryCutoff = "5:20" }, "invalid summary_cutoff"},
		{"zone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "load zone"},
		{"timeout", func(c *Config) { c.HTTPTimeoutSeconds = 0 }, "http_timeout_seconds"},
		{"alias", func(c *Config) { c.ExtraAliases = map[string]string{"X": "KALYAN"} }, "unknown market"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.errMsg)
		})
	}
	assert.NoError(t, Defaults().Validate())
}
