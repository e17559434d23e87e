package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
service:
  http_addr: ":8081"
bybit:
  api_key: file-key
  api_secret: file-secret
  env: testnet
  call_timeout: 3s
telegram:
  api_id: 12345
  api_hash: hash
  phone: "+10000000000"
  signal_sender: "@SignalsBot"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values_test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Service.HTTPAddr)
	assert.Equal(t, "file-key", cfg.Bybit.APIKey)
	assert.Equal(t, "testnet", cfg.Bybit.Env)
	assert.Equal(t, 3*time.Second, cfg.Bybit.CallTimeout)
	assert.Equal(t, "linear", cfg.Bybit.Category)
	assert.Equal(t, "UNIFIED", cfg.Bybit.AccountType)
	assert.Equal(t, "USDT", cfg.Bybit.QuoteCoin)
	assert.Equal(t, 12345, cfg.Telegram.APIID)
	assert.Equal(t, "SignalsBot", cfg.Telegram.SignalSender, "leading @ is dropped")
	assert.Equal(t, 5*time.Minute, cfg.Telegram.CodeTimeout)
	assert.Equal(t, 64, cfg.Service.QueueSize)
	assert.Empty(t, cfg.DB)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Setenv("API_KEY", "env-key")
	t.Setenv("API_SECRET", "env-secret")
	t.Setenv("BOT_USERNAME", "OtherBot")
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_NAME", "trader")
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/db")

	cfg, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Bybit.APIKey)
	assert.Equal(t, "env-secret", cfg.Bybit.APISecret)
	assert.Equal(t, "OtherBot", cfg.Telegram.SignalSender)
	assert.Equal(t, ":9090", cfg.Service.HTTPAddr)
	assert.Equal(t, "trader.session", cfg.Telegram.SessionFile)
	assert.Equal(t, "postgres://u:p@localhost:5432/db", cfg.DB)
}

func TestLoad_MissingRequired(t *testing.T) {
	_, err := Load(writeConfig(t, "service:\n  http_addr: \":1\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestSessionFileName(t *testing.T) {
	assert.Equal(t, "bot.session", sessionFileName("bot"))
	assert.Equal(t, "bot.db", sessionFileName("bot.db"))
}
