package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration accepts Go duration strings ("10s", "200ms") in yaml.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Gateways GatewaysConfig `yaml:"gateways"`
	Pimenta  PimentaConfig  `yaml:"pimenta"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logger   LoggerConfig   `yaml:"logger"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"` // "sandbox" or "live"
}

func (c ServerConfig) IsLive() bool {
	return c.Environment == "live"
}

type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	User            string `yaml:"user"`
	DBName          string `yaml:"name"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"ssl_mode"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
}

type GatewaysConfig struct {
	Pagarme GatewayConfig `yaml:"pagarme"`
	PicPay  GatewayConfig `yaml:"picpay"`
}

type GatewayConfig struct {
	BaseURL          string   `yaml:"base_url"`
	APIKey           string   `yaml:"api_key"`
	WebhookSecret    string   `yaml:"webhook_secret"`
	Timeout          Duration `yaml:"timeout"`
	MaxRetries       int      `yaml:"max_retries"`
	RetryBackoffBase Duration `yaml:"retry_backoff_base"`
}

type PimentaConfig struct {
	MessageCost int64 `yaml:"message_cost"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	TimeFormat string `yaml:"time_format"`
	Pretty     bool   `yaml:"pretty"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config.yaml"
	}

	var config Config
	configData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(configData, &config); err != nil {
		return nil, err
	}

	applyEnvOverrides(&config)

	return &config, nil
}

// applyEnvOverrides lets secrets come from the environment instead of config.yaml.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("PAGARME_API_KEY"); v != "" {
		cfg.Gateways.Pagarme.APIKey = v
	}
	if v := os.Getenv("PAGARME_WEBHOOK_SECRET"); v != "" {
		cfg.Gateways.Pagarme.WebhookSecret = v
	}
	if v := os.Getenv("PICPAY_API_KEY"); v != "" {
		cfg.Gateways.PicPay.APIKey = v
	}
	if v := os.Getenv("PICPAY_SELLER_TOKEN"); v != "" {
		cfg.Gateways.PicPay.WebhookSecret = v
	}
}
