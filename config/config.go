package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application-wide configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Mail      MailConfig      `mapstructure:"mail"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Cron      CronConfig      `mapstructure:"cron"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	BaseURL      string     `mapstructure:"base_url"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL connection
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig token blacklist and rate limiting
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT and password hashing
type AuthConfig struct {
	JWTSecret               string        `mapstructure:"jwt_secret"`
	AccessTokenTTL          time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTLDefault  time.Duration `mapstructure:"refresh_token_ttl_default"`
	RefreshTokenTTLRemember time.Duration `mapstructure:"refresh_token_ttl_remember_me"`
	BcryptCost              int           `mapstructure:"bcrypt_cost"`
	LoginRateLimit          int           `mapstructure:"login_rate_limit"` // attempts per minute per IP
	Cookie                  CookieConfig  `mapstructure:"cookie"`
}

// CookieConfig refresh-token cookie
type CookieConfig struct {
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
	Domain   string `mapstructure:"domain"`
}

// MailConfig notification delivery
type MailConfig struct {
	Provider  string `mapstructure:"provider"` // sendgrid | log
	APIKey    string `mapstructure:"api_key"`
	FromName  string `mapstructure:"from_name"`
	FromEmail string `mapstructure:"from_email"`
	PortalURL string `mapstructure:"portal_url"`
}

// StorageConfig blob store
type StorageConfig struct {
	Provider        string `mapstructure:"provider"` // oss | memory
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	Prefix          string `mapstructure:"prefix"`
	MaxUploadBytes  int64  `mapstructure:"max_upload_bytes"`
}

// CronConfig shared secret of the reminder and status endpoints, and the
// schedule used by cmd/reminder-cron.
type CronConfig struct {
	Secret    string `mapstructure:"secret"`
	Schedule  string `mapstructure:"schedule"`
	TargetURL string `mapstructure:"target_url"`
}

// ReminderConfig day offsets of the reminder policy
type ReminderConfig struct {
	Timezone     string `mapstructure:"timezone"`
	UpcomingDays int    `mapstructure:"upcoming_days"`
	OverdueDays  int    `mapstructure:"overdue_days"`
}

// GeneratorConfig fallbacks for period generation
type GeneratorConfig struct {
	// Day of month for monthly deadlines when a program does not set one.
	// Zero means monthly periods get no deadline.
	MonthlyDeadlineDay int `mapstructure:"monthly_deadline_day"`
}

// LogConfig logging
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration.
// Precedence: environment > config file > defaults. A .env file in the
// working directory is loaded into the environment first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.max_body_bytes", 30<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "atp_portal")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Mexico_City")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "30m")
	v.SetDefault("auth.refresh_token_ttl_default", "24h")
	v.SetDefault("auth.refresh_token_ttl_remember_me", "168h")
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "Lax")

	v.SetDefault("mail.provider", "log")
	v.SetDefault("mail.from_name", "Supervisión Escolar ATP")
	v.SetDefault("mail.from_email", "atp@supervision.edu.mx")
	v.SetDefault("mail.portal_url", "http://localhost:3000")

	v.SetDefault("storage.provider", "memory")
	v.SetDefault("storage.prefix", "sisat-atp")
	v.SetDefault("storage.max_upload_bytes", 25<<20)

	v.SetDefault("cron.schedule", "0 8 * * *")
	v.SetDefault("cron.target_url", "http://localhost:8080/api/v1/cron/reminders")

	v.SetDefault("reminder.timezone", "America/Mexico_City")
	v.SetDefault("reminder.upcoming_days", 3)
	v.SetDefault("reminder.overdue_days", -1)

	v.SetDefault("generator.monthly_deadline_day", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("ATP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid config: auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	if c.Cron.Secret == "" {
		return fmt.Errorf("invalid config: cron.secret is required")
	}
	switch c.Storage.Provider {
	case "oss", "memory":
	default:
		return fmt.Errorf("invalid config: unknown storage.provider %q", c.Storage.Provider)
	}
	switch c.Mail.Provider {
	case "sendgrid", "log":
	default:
		return fmt.Errorf("invalid config: unknown mail.provider %q", c.Mail.Provider)
	}
	if c.Mail.Provider == "sendgrid" && c.Mail.APIKey == "" {
		return fmt.Errorf("invalid config: mail.api_key is required for sendgrid")
	}
	return nil
}
