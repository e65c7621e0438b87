package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".donorbridge"
	configFileName = "config.yaml"
	tokenFileName  = "token"
)

// LocalConfig holds configuration loaded from a local file, used by the
// standalone server mode during development.
type LocalConfig struct {
	Accounting Accounting
	Donorbox   Donorbox
	Invoice    Invoice
	Server     Server
}

// localAccounting represents the accounting section of the config file.
type localAccounting struct {
	APIBaseURL   string `yaml:"api_base_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	TokenURL     string `yaml:"token_url"`
}

// localConfig represents the local configuration file structure.
type localConfig struct {
	Accounting localAccounting `yaml:"accounting"`
	Donorbox   localDonorbox   `yaml:"donorbox"`
	Invoice    localInvoice    `yaml:"invoice"`
	Server     localServer     `yaml:"server"`
}

// localDonorbox represents the donorbox section of the config file.
type localDonorbox struct {
	WebhookSecret string `yaml:"webhook_secret"`
}

// localInvoice represents the invoice section of the config file.
type localInvoice struct {
	CompanyID     string `yaml:"company_id"`
	FallbackEmail string `yaml:"fallback_email"`
	ProductID     string `yaml:"product_id"`
	SeriesID      string `yaml:"series_id"`
	TaxID         string `yaml:"tax_id"`
}

// localServer represents the server section of the config file.
type localServer struct {
	Port string `yaml:"port"`
}

// ConfigDir returns the donorbridge configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigFilePath returns the path to the local config file.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadLocal loads configuration from the local config file.
func LoadLocal() (*LocalConfig, error) {
	configPath, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var local localConfig
	if err := yaml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &LocalConfig{}
	cfg.Accounting.APIBaseURL = local.Accounting.APIBaseURL
	cfg.Accounting.ClientID = local.Accounting.ClientID
	cfg.Accounting.ClientSecret = local.Accounting.ClientSecret
	cfg.Accounting.RefreshToken = local.Accounting.RefreshToken
	cfg.Accounting.TokenURL = local.Accounting.TokenURL
	cfg.Donorbox.WebhookSecret = local.Donorbox.WebhookSecret
	cfg.Invoice.CompanyID = local.Invoice.CompanyID
	cfg.Invoice.FallbackEmail = local.Invoice.FallbackEmail
	cfg.Invoice.ProductID = local.Invoice.ProductID
	cfg.Invoice.SeriesID = local.Invoice.SeriesID
	cfg.Invoice.TaxID = local.Invoice.TaxID
	cfg.Server.Port = local.Server.Port

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LocalConfigExists checks if a local config file exists.
func LocalConfigExists() bool {
	configPath, err := ConfigFilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(configPath)
	return err == nil
}

// TokenFilePath returns the path to the local refresh token file.
func TokenFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tokenFileName), nil
}

// validate checks that required fields are set.
func (c *LocalConfig) validate() error {
	var errs []error

	if c.Accounting.APIBaseURL == "" {
		errs = append(errs, errors.New("accounting.api_base_url is required"))
	}
	if c.Accounting.ClientID == "" {
		errs = append(errs, errors.New("accounting.client_id is required"))
	}
	if c.Accounting.ClientSecret == "" {
		errs = append(errs, errors.New("accounting.client_secret is required"))
	}
	if c.Invoice.CompanyID == "" {
		errs = append(errs, errors.New("invoice.company_id is required"))
	}
	if c.Invoice.ProductID == "" {
		errs = append(errs, errors.New("invoice.product_id is required"))
	}
	if c.Invoice.SeriesID == "" {
		errs = append(errs, errors.New("invoice.series_id is required"))
	}

	return errors.Join(errs...)
}
