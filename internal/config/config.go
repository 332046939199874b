package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Vyapari"`
		Port int    `envconfig:"PORT" default:"8080"`

		// AllowedOrigins is comma-separated; credentials are allowed, so
		// list the shell origins explicitly in production.
		AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	}

	// Backend is the REST API every meaningful computation is delegated to.
	Backend struct {
		URL     string        `envconfig:"BACKEND_URL" default:"http://localhost:8000"`
		Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"30s"`
	}

	// Shell is where the gateway sends the browser after the handshake.
	Shell struct {
		LandingURL   string `envconfig:"SHELL_LANDING_URL" default:"/"`
		DashboardURL string `envconfig:"SHELL_DASHBOARD_URL" default:"/dashboard"`
	}

	Session struct {
		// CodeTTL bounds how long a claimed exchange code is remembered.
		CodeTTL time.Duration `envconfig:"SESSION_CODE_TTL" default:"10m"`
	}

	// DB is optional; when Host is empty the gateway keeps exchange-code
	// claims in memory, which is fine for a single instance.
	DB struct {
		Host     string `envconfig:"DB_HOST" default:""`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"vyapari"`
	}

	Seller struct {
		Name    string `envconfig:"SELLER_NAME" default:""`
		GSTIN   string `envconfig:"SELLER_GSTIN" default:""`
		Address string `envconfig:"SELLER_ADDRESS" default:""`
		Phone   string `envconfig:"SELLER_PHONE" default:""`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
