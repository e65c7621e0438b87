package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeLocalConfig puts a config file into a temp home directory and points
// the process at it.
func writeLocalConfig(t *testing.T, contents string) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, configDirName)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(contents), 0o600))
}

const validLocalConfig = `
accounting:
  api_base_url: https://api.accounting.example.com
  client_id: client-1
  client_secret: shh
  refresh_token: refresh-abc
donorbox:
  webhook_secret: webhook-secret
invoice:
  company_id: comp-1
  fallback_email: office@example.org
  product_id: prod-1
  series_id: DON-2026
  tax_id: tax-0
server:
  port: "9090"
`

func TestLoadLocal(t *testing.T) {
	t.Run("valid config file", func(t *testing.T) {
		writeLocalConfig(t, validLocalConfig)

		cfg, err := LoadLocal()
		require.NoError(t, err)

		require.Equal(t, "https://api.accounting.example.com", cfg.Accounting.APIBaseURL)
		require.Equal(t, "client-1", cfg.Accounting.ClientID)
		require.Equal(t, "shh", cfg.Accounting.ClientSecret)
		require.Equal(t, "refresh-abc", cfg.Accounting.RefreshToken)
		require.Equal(t, "webhook-secret", cfg.Donorbox.WebhookSecret)
		require.Equal(t, "comp-1", cfg.Invoice.CompanyID)
		require.Equal(t, "office@example.org", cfg.Invoice.FallbackEmail)
		require.Equal(t, "prod-1", cfg.Invoice.ProductID)
		require.Equal(t, "DON-2026", cfg.Invoice.SeriesID)
		require.Equal(t, "tax-0", cfg.Invoice.TaxID)
		require.Equal(t, "9090", cfg.Server.Port)
	})

	t.Run("port defaults when omitted", func(t *testing.T) {
		writeLocalConfig(t, `
accounting:
  api_base_url: https://api.accounting.example.com
  client_id: client-1
  client_secret: shh
invoice:
  company_id: comp-1
  product_id: prod-1
  series_id: DON-2026
`)

		cfg, err := LoadLocal()
		require.NoError(t, err)
		require.Equal(t, "8080", cfg.Server.Port)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		cfg, err := LoadLocal()
		require.Error(t, err)
		require.Contains(t, err.Error(), "config file not found")
		require.Nil(t, cfg)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		writeLocalConfig(t, "accounting: [broken")

		cfg, err := LoadLocal()
		require.Error(t, err)
		require.Contains(t, err.Error(), "parsing config file")
		require.Nil(t, cfg)
	})

	t.Run("missing required fields", func(t *testing.T) {
		writeLocalConfig(t, `
accounting:
  api_base_url: https://api.accounting.example.com
`)

		cfg, err := LoadLocal()
		require.Error(t, err)
		require.Contains(t, err.Error(), "accounting.client_id is required")
		require.Contains(t, err.Error(), "invoice.company_id is required")
		require.Nil(t, cfg)
	})
}

func TestLocalConfigExists(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		writeLocalConfig(t, validLocalConfig)
		require.True(t, LocalConfigExists())
	})

	t.Run("absent", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		require.False(t, LocalConfigExists())
	})
}

func TestTokenFilePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := TokenFilePath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, configDirName, tokenFileName), path)
}
