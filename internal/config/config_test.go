package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, "resources/invoice.html", cfg.Resources.Template)
	assert.Equal(t, 13.0, cfg.Invoice.TaxPercent)
	assert.Empty(t, cfg.Ledger.Path)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
output:
  dir: /tmp/invoices
invoice:
  tax_percent: 5
ledger:
  path: data/ledger.db
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/invoices", cfg.Output.Dir)
	assert.Equal(t, 5.0, cfg.Invoice.TaxPercent)
	assert.Equal(t, "data/ledger.db", cfg.Ledger.Path)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	cfg.Invoice.TaxPercent = 250
	assert.Error(t, cfg.Validate())

	cfg.Invoice.TaxPercent = 13
	cfg.Output.Dir = ""
	assert.Error(t, cfg.Validate())
}
