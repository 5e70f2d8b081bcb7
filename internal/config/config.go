package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is built once at startup and passed explicitly to components.
// Nothing reads ambient environment after Load returns.
type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	SMS        SMSConfig        `yaml:"sms"`
	API        APIConfig        `yaml:"api"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Google     GoogleConfig     `yaml:"google"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"` // development, production
	Version     string `yaml:"version"`
}

// IsProduction gates test-only behavior such as echoing OTP codes in
// responses.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type AuthConfig struct {
	JWTSecret            string `yaml:"jwt_secret"`
	TokenTTLHours        int    `yaml:"token_ttl_hours"`
	OTPTTLMinutes        int    `yaml:"otp_ttl_minutes"`
	OTPSendLimit         int    `yaml:"otp_send_limit"`
	OTPSendWindowSeconds int    `yaml:"otp_send_window"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

func (a AuthConfig) OTPTTL() time.Duration {
	return time.Duration(a.OTPTTLMinutes) * time.Minute
}

func (a AuthConfig) OTPSendWindow() time.Duration {
	return time.Duration(a.OTPSendWindowSeconds) * time.Second
}

type SMSConfig struct {
	Provider       string `yaml:"provider"` // console, http
	GatewayURL     string `yaml:"gateway_url"`
	APIKey         string `yaml:"api_key"`
	Sender         string `yaml:"sender"`
	TimeoutSeconds int    `yaml:"timeout"`
}

func (s SMSConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type APIConfig struct {
	Port           int                `yaml:"port"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	RateLimit      APIRateLimitConfig `yaml:"rate_limit"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"` // json, console
	Output   string `yaml:"output"` // stdout, stderr, file
	FilePath string `yaml:"file_path"`
}

type GoogleConfig struct {
	CredentialsFile       string `yaml:"credentials_file"`
	UsersSpreadSheetID    string `yaml:"users_spreadsheet_id"`
	BookingsSpreadSheetID string `yaml:"bookings_spreadsheet_id"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads .env (when present), then the YAML config with environment
// variables expanded in place.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "CHANGE_ME" {
		return errors.New("auth jwt_secret is required")
	}
	if c.SMS.Provider == "http" && c.SMS.GatewayURL == "" {
		return errors.New("sms gateway_url is required for the http provider")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "urban-company-backend"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.API.Port == 0 {
		c.API.Port = 5000
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 7 * 24
	}
	if c.Auth.OTPTTLMinutes == 0 {
		c.Auth.OTPTTLMinutes = 10
	}
	if c.Auth.OTPSendLimit == 0 {
		c.Auth.OTPSendLimit = 5
	}
	if c.Auth.OTPSendWindowSeconds == 0 {
		c.Auth.OTPSendWindowSeconds = 3600
	}
	if c.SMS.Provider == "" {
		c.SMS.Provider = "console"
	}
	if c.SMS.TimeoutSeconds == 0 {
		c.SMS.TimeoutSeconds = 5
	}
	if c.API.RateLimit.RPS == 0 {
		c.API.RateLimit.RPS = 20
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = 40
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
