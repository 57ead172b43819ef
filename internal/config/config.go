package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// CountyTaxRateDefault is the Santa Cruz County combined sales tax rate.
const CountyTaxRateDefault = 0.0975

// Company holds the issuing company's identity printed on rendered documents.
type Company struct {
	Name    string
	Tagline string
	Phone   string
	Fax     string
	Web     string
	Street  string
	City    string
	State   string
	Zip     string
}

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	MigrationsPath     string
	CatalogPath        string
	CRMBaseURL         string
	CRMAPIToken        string
	CRMTimeout         time.Duration
	DefaultTaxRate     float64
	CountyTaxRate      float64
	CORSAllowedOrigins []string
	LogFormat          string
	LogLevel           string
	MetricsEnabled     bool
	MetricsNamespace   string
	DefaultOperator    string
	DefaultTerms       string
	Company            Company
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		MigrationsPath:     strings.TrimSpace(k.String("MIGRATIONS_PATH")),
		CatalogPath:        valueOrDefault(k.String("CATALOG_PATH"), "products.csv"),
		CRMBaseURL:         valueOrDefault(k.String("CRM_BASE_URL"), "https://api.pipedrive.com/v1"),
		CRMAPIToken:        strings.TrimSpace(k.String("CRM_API_TOKEN")),
		CRMTimeout:         parseDuration(k.String("CRM_TIMEOUT"), "10s"),
		DefaultTaxRate:     parseFloat(k.String("SALES_TAX_RATE_DEFAULT"), 0),
		CountyTaxRate:      parseFloat(k.String("COUNTY_TAX_RATE"), CountyTaxRateDefault),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		LogFormat:          valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
		LogLevel:           valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
		MetricsEnabled:     parseBool(valueOrDefault(k.String("OBS_ENABLE_PROMETHEUS"), "true")),
		MetricsNamespace:   valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "quoting"),
		DefaultOperator:    valueOrDefault(k.String("ORDER_DEFAULT_OPERATOR"), "CZ"),
		DefaultTerms:       valueOrDefault(k.String("ORDER_DEFAULT_TERMS"), "NET 30"),
		Company: Company{
			Name:    valueOrDefault(k.String("COMPANY_NAME"), "Disc Golf Association, Inc."),
			Tagline: valueOrDefault(k.String("COMPANY_TAGLINE"), "FIRST IN DISC GOLF"),
			Phone:   valueOrDefault(k.String("COMPANY_PHONE"), "(831) 722-6037"),
			Fax:     valueOrDefault(k.String("COMPANY_FAX"), "(831) 722-8176"),
			Web:     valueOrDefault(k.String("COMPANY_WEB"), "www.discgolf.com"),
			Street:  valueOrDefault(k.String("COMPANY_ADDR_1"), "73 Hangar Way"),
			City:    valueOrDefault(k.String("COMPANY_ADDR_CITY"), "Watsonville"),
			State:   valueOrDefault(k.String("COMPANY_ADDR_STATE"), "CA"),
			Zip:     valueOrDefault(k.String("COMPANY_ADDR_ZIP"), "95076"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.DefaultTaxRate < 0 || cfg.DefaultTaxRate >= 1 {
		return nil, fmt.Errorf("SALES_TAX_RATE_DEFAULT must be a rate in [0,1), got %v", cfg.DefaultTaxRate)
	}
	if cfg.CountyTaxRate < 0 || cfg.CountyTaxRate >= 1 {
		return nil, fmt.Errorf("COUNTY_TAX_RATE must be a rate in [0,1), got %v", cfg.CountyTaxRate)
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
