package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Zargar"`
	}

	API struct {
		BaseURL  string        `envconfig:"API_BASE_URL" default:"http://localhost:8090"`
		Timeout  time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
		Username string        `envconfig:"API_USERNAME" default:"admin"`
		Password string        `envconfig:"API_PASSWORD" default:"admin"`
	}

	Invoice struct {
		// Default percentages pre-filled into a new draft, overridable per invoice.
		LaborPct  string `envconfig:"INVOICE_LABOR_PCT" default:"10"`
		ProfitPct string `envconfig:"INVOICE_PROFIT_PCT" default:"15"`
		VATPct    string `envconfig:"INVOICE_VAT_PCT" default:"9"`
	}

	Stub struct {
		Port      int           `envconfig:"STUB_PORT" default:"8090"`
		JWTSecret string        `envconfig:"STUB_JWT_SECRET" default:"dev-secret"`
		TokenTTL  time.Duration `envconfig:"STUB_TOKEN_TTL" default:"24h"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
