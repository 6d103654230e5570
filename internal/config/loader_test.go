package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `{
		"start_date": "2020-09-01T00:00:00Z",
		"customer_id": "163875182",
		"account_ids": "163078754,163078755",
		"oauth_client_id": "client-id",
		"oauth_client_secret": "client-secret",
		"refresh_token": "refresh",
		"developer_token": "dev-token",
		"request_timeout": 120,
		"logging": {"level": "debug", "format": "text"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2020-09-01T00:00:00Z", cfg.StartDate)
	assert.Equal(t, "163875182", cfg.CustomerID)
	assert.Equal(t, []string{"163078754", "163078755"}, cfg.AccountIDList())
	assert.Equal(t, "dev-token", cfg.DeveloperToken)
	assert.Equal(t, 120, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	// Defaults survive for keys the file omits.
	assert.Equal(t, "tap-bingads", cfg.UserAgent)
	assert.Equal(t, "stderr", cfg.Logging.Output)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadEnvSubstitution(t *testing.T) {
	t.Setenv("BING_REFRESH_TOKEN", "tok-from-env")
	t.Setenv("BING_DEV_TOKEN", "dev-from-env")

	path := writeConfigFile(t, `{
		"refresh_token": "${BING_REFRESH_TOKEN}",
		"developer_token": "$BING_DEV_TOKEN",
		"oauth_client_secret": "${UNSET_VARIABLE_XYZ}"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tok-from-env", cfg.RefreshToken)
	assert.Equal(t, "dev-from-env", cfg.DeveloperToken)

	// Unset variables are left as-is so validation can flag them.
	assert.Equal(t, "${UNSET_VARIABLE_XYZ}", cfg.OAuthClientSecret)
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TAP_TEST_VALUE", "resolved")

	assert.Equal(t, "resolved", expandEnvVar("${TAP_TEST_VALUE}"))
	assert.Equal(t, "resolved", expandEnvVar("$TAP_TEST_VALUE"))
	assert.Equal(t, "prefix-resolved-suffix", expandEnvVar("prefix-${TAP_TEST_VALUE}-suffix"))
	assert.Equal(t, "plain", expandEnvVar("plain"))
}
