package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	BaseURL string `yaml:"base_url"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type PasswordConfig struct {
	MinLength      int  `yaml:"min_length"`
	RequireUpper   bool `yaml:"require_upper"`
	RequireLower   bool `yaml:"require_lower"`
	RequireDigit   bool `yaml:"require_digit"`
	RequireSpecial bool `yaml:"require_special"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type DeviceTrustConfig struct {
	TTL string `yaml:"ttl"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	AppName  string `yaml:"app_name"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
}

type CleanupConfig struct {
	Interval string `yaml:"interval"`
}

type ConfigFile struct {
	App         AppConfig         `yaml:"app"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	JWT         JWTConfig         `yaml:"jwt"`
	Password    PasswordConfig    `yaml:"password"`
	OTP         OTPConfig         `yaml:"otp"`
	DeviceTrust DeviceTrustConfig `yaml:"device_trust"`
	Google      GoogleConfig      `yaml:"google"`
	SMTP        SMTPConfig        `yaml:"smtp"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Cleanup     CleanupConfig     `yaml:"cleanup"`
}

// Config is the immutable runtime configuration, constructed once at
// process start and injected into every component.
type Config struct {
	Port    string
	GinMode string
	BaseURL string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	PasswordMinLength      int
	PasswordRequireUpper   bool
	PasswordRequireLower   bool
	PasswordRequireDigit   bool
	PasswordRequireSpecial bool

	OTPTTL          time.Duration
	OTPMaxAttempts  int
	OTPResendWindow time.Duration

	DeviceTrustTTL time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	AppName      string

	RateLimitPerMinute int

	CleanupInterval time.Duration
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads the YAML config file and resolves durations. Secrets may
// be overridden through the environment so they stay out of the file.
func Load() (*Config, error) {
	path := env("CONFIG_FILE", "config/config.yml")
	file, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(file.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	refTTL, err := time.ParseDuration(file.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}
	otpTTL, err := time.ParseDuration(file.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}
	resWnd, err := time.ParseDuration(file.OTP.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}
	trustTTL, err := time.ParseDuration(file.DeviceTrust.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid device trust TTL: %w", err)
	}
	cleanup, err := time.ParseDuration(file.Cleanup.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup interval: %w", err)
	}

	return &Config{
		Port:    fmt.Sprintf("%d", file.App.Port),
		GinMode: file.App.GinMode,
		BaseURL: file.App.BaseURL,

		DSN: env("DATABASE_DSN", file.Database.DSN),

		RedisAddr:     file.Redis.Addr,
		RedisPassword: env("REDIS_PASSWORD", file.Redis.Password),
		RedisDB:       file.Redis.DB,

		JWTSecret:  env("JWT_SECRET", file.JWT.Secret),
		JWTIssuer:  file.JWT.Issuer,
		AccessTTL:  accTTL,
		RefreshTTL: refTTL,

		PasswordMinLength:      file.Password.MinLength,
		PasswordRequireUpper:   file.Password.RequireUpper,
		PasswordRequireLower:   file.Password.RequireLower,
		PasswordRequireDigit:   file.Password.RequireDigit,
		PasswordRequireSpecial: file.Password.RequireSpecial,

		OTPTTL:          otpTTL,
		OTPMaxAttempts:  file.OTP.MaxAttempts,
		OTPResendWindow: resWnd,

		DeviceTrustTTL: trustTTL,

		GoogleClientID:     env("GOOGLE_CLIENT_ID", file.Google.ClientID),
		GoogleClientSecret: env("GOOGLE_CLIENT_SECRET", file.Google.ClientSecret),
		GoogleRedirectURL:  file.Google.RedirectURL,

		SMTPHost:     file.SMTP.Host,
		SMTPPort:     file.SMTP.Port,
		SMTPUser:     env("SMTP_USER", file.SMTP.User),
		SMTPPassword: env("SMTP_PASSWORD", file.SMTP.Password),
		SMTPFrom:     file.SMTP.From,
		AppName:      file.SMTP.AppName,

		RateLimitPerMinute: file.RateLimit.PerMinute,

		CleanupInterval: cleanup,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
