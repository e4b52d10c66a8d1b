package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Resources ResourcesConfig `mapstructure:"resources"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Invoice   InvoiceConfig   `mapstructure:"invoice"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// ResourcesConfig holds presentation asset paths
type ResourcesConfig struct {
	Template   string `mapstructure:"template"`
	Stylesheet string `mapstructure:"stylesheet"`
}

// LedgerConfig holds the issued-invoice ledger configuration. An empty path
// disables the ledger.
type LedgerConfig struct {
	Path string `mapstructure:"path"`
}

// InvoiceConfig holds per-invoice defaults
type InvoiceConfig struct {
	TaxPercent float64 `mapstructure:"tax_percent"`
	Offset     int64   `mapstructure:"offset"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. A missing
// config file is fine; defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("INVOICEGEN")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", "output")

	v.SetDefault("resources.template", "resources/invoice.html")
	v.SetDefault("resources.stylesheet", "resources/invoice.css")

	v.SetDefault("ledger.path", "")

	v.SetDefault("invoice.tax_percent", 13.0)
	v.SetDefault("invoice.offset", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stderr")
	v.SetDefault("logger.format", "console")
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if c.Invoice.TaxPercent < 0 || c.Invoice.TaxPercent > 100 {
		return fmt.Errorf("invoice.tax_percent must be between 0 and 100, got %.2f", c.Invoice.TaxPercent)
	}
	if c.Resources.Template == "" || c.Resources.Stylesheet == "" {
		return fmt.Errorf("resources.template and resources.stylesheet must be set")
	}
	return nil
}
