package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig          `envPrefix:"APP_"`
	Database     DatabaseConfig     `envPrefix:"DB_"`
	JWT          JWTConfig          `envPrefix:"JWT_"`
	OAuth2Google OAuth2GoogleConfig `envPrefix:"GOOGLE_"`
	SMTP         SMTPConfig         `envPrefix:"SMTP_"`
	Redis        RedisConfig        `envPrefix:"REDIS_"`
	Attendance   AttendanceConfig   `envPrefix:"ATTENDANCE_"`
	InitialAdmin InitialAdminConfig `envPrefix:"INITIAL_ADMIN_"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string   `env:"NAME" envDefault:"workforce-backend"`
	Version        string   `env:"VERSION" envDefault:"v1.0.0"`
	Port           int      `env:"PORT" envDefault:"8080"`
	Env            string   `env:"ENV" envDefault:"development"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	Timezone       string   `env:"TIMEZONE" envDefault:"Local"`
	FrontendURL    string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"workforce"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"`
	MaxConns int32  `env:"MAX_CONNS" envDefault:"25"`
	MinConns int32  `env:"MIN_CONNS" envDefault:"5"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string `env:"SECRET_KEY"`
	AccessExpiration  string `env:"ACCESS_EXPIRATION_TIME" envDefault:"1h"`
	RefreshExpiration string `env:"REFRESH_EXPIRATION_TIME" envDefault:"168h"`
}

// OAuth2GoogleConfig is optional; Google login is disabled when ClientID is empty.
type OAuth2GoogleConfig struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RedirectURL  string   `env:"REDIRECT_URL"`
	Scopes       []string `env:"SCOPES" envSeparator:"," envDefault:"https://www.googleapis.com/auth/userinfo.email"`
}

func (c OAuth2GoogleConfig) Enabled() bool {
	return c.ClientID != ""
}

// SMTPConfig is optional; notification emails are skipped when Host is empty.
type SMTPConfig struct {
	Host        string        `env:"HOST"`
	Port        int           `env:"PORT" envDefault:"587"`
	Username    string        `env:"USERNAME"`
	Password    string        `env:"PASSWORD"`
	From        string        `env:"FROM"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"10s"`
	SendTimeout time.Duration `env:"SEND_TIMEOUT" envDefault:"1m"`
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// RedisConfig is optional; revoked access tokens are kept in memory when Addr is empty.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type AttendanceConfig struct {
	AutoCheckoutInterval time.Duration `env:"AUTO_CHECKOUT_INTERVAL" envDefault:"1m"`
}

// InitialAdminConfig describes the account ensured at startup.
type InitialAdminConfig struct {
	Username string `env:"USERNAME" envDefault:"admin"`
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
	FullName string `env:"FULL_NAME" envDefault:"Administrator"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return nil, fmt.Errorf("invalid environment: %w", aggErr.Errors[0])
		}
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Attendance.AutoCheckoutInterval <= 0 {
		return fmt.Errorf("ATTENDANCE_AUTO_CHECKOUT_INTERVAL must be positive")
	}

	if c.OAuth2Google.Enabled() {
		if c.OAuth2Google.ClientSecret == "" {
			return fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
		}
		if c.OAuth2Google.RedirectURL == "" {
			return fmt.Errorf("GOOGLE_REDIRECT_URL is required")
		}
	}

	if c.SMTP.Enabled() && c.SMTP.From == "" {
		return fmt.Errorf("SMTP_FROM is required")
	}
	if c.SMTP.Enabled() && c.SMTP.SendTimeout <= 0 {
		return fmt.Errorf("SMTP_SEND_TIMEOUT must be positive")
	}

	if c.InitialAdmin.Email != "" && len(c.InitialAdmin.Password) < 8 {
		return fmt.Errorf("INITIAL_ADMIN_PASSWORD must be at least 8 characters")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Location returns the wall-clock timezone attendance is evaluated in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
