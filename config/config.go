package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Redis      RedisConfig
	Email      EmailConfig
	Commission CommissionConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type EmailConfig struct {
	Enabled   bool
	AWSRegion string
	From      string
}

// CommissionConfig holds the single configured default affiliate commission
// rate, applied when a contract or affiliate record carries no explicit rate.
type CommissionConfig struct {
	DefaultRate float64
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables (and an optional .env
// file), with sensible development defaults.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("READ_TIMEOUT_SEC", 10)
	v.SetDefault("WRITE_TIMEOUT_SEC", 10)
	v.SetDefault("DB_DSN", "ridgeworks:ridgeworks@tcp(localhost:3306)/ridgeworks?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MIN", 60)
	v.SetDefault("JWT_ACCESS_SECRET", "change-me-in-production")
	v.SetDefault("JWT_REFRESH_SECRET", "change-me-refresh")
	v.SetDefault("JWT_ACCESS_EXPIRY_MIN", 15)
	v.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	v.SetDefault("JWT_ISSUER", "ridgeworks")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("EMAIL_ENABLED", false)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("EMAIL_FROM", "noreply@ridgeworks.io")
	v.SetDefault("COMMISSION_DEFAULT_RATE", 10.0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  time.Duration(v.GetInt("READ_TIMEOUT_SEC")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("WRITE_TIMEOUT_SEC")) * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MIN")) * time.Minute,
		},
		JWT: JWTConfig{
			AccessSecret:  v.GetString("JWT_ACCESS_SECRET"),
			RefreshSecret: v.GetString("JWT_REFRESH_SECRET"),
			AccessExpiry:  time.Duration(v.GetInt("JWT_ACCESS_EXPIRY_MIN")) * time.Minute,
			RefreshExpiry: time.Duration(v.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
			Issuer:        v.GetString("JWT_ISSUER"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Email: EmailConfig{
			Enabled:   v.GetBool("EMAIL_ENABLED"),
			AWSRegion: v.GetString("AWS_REGION"),
			From:      v.GetString("EMAIL_FROM"),
		},
		Commission: CommissionConfig{
			DefaultRate: v.GetFloat64("COMMISSION_DEFAULT_RATE"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
