package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	Inference InferenceConfig
	Import    ImportConfig
	CORS      CORSConfig
	Email     EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InferenceConfig holds settings for the multimodal inference provider.
type InferenceConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	ExtractModel string `mapstructure:"extract_model"`
	ParseModel   string `mapstructure:"parse_model"`
	MaxTokens    int    `mapstructure:"max_tokens"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ImportConfig holds PDF import pipeline settings.
type ImportConfig struct {
	MaxFileSizeBytes int64 `mapstructure:"max_file_size_bytes"`
	MaxPages         int   `mapstructure:"max_pages"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// Load reads configuration from environment variables with the EDIFIKA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EDIFIKA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "edifika")
	v.SetDefault("db.password", "edifika_secret")
	v.SetDefault("db.name", "edifika_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "edifika")

	// S3 defaults
	v.SetDefault("s3.region", "sa-east-1")
	v.SetDefault("s3.bucket", "edifika-imports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Inference defaults
	v.SetDefault("inference.base_url", "https://api.openai.com/v1")
	v.SetDefault("inference.api_key", "")
	v.SetDefault("inference.extract_model", "gpt-4o")
	v.SetDefault("inference.parse_model", "gpt-4o-mini")
	v.SetDefault("inference.max_tokens", 8192)
	v.SetDefault("inference.timeout_secs", 120)

	// Import defaults (15 MiB upload cap, 10 pages of OCR)
	v.SetDefault("import.max_file_size_bytes", 15*1024*1024)
	v.SetDefault("import.max_pages", 10)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "sa-east-1")
	v.SetDefault("email.from_address", "noreply@edifika.app")
	v.SetDefault("email.from_name", "Edifika")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "EDIFIKA_SERVER_PORT",
		"server.read_timeout":        "EDIFIKA_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "EDIFIKA_SERVER_WRITE_TIMEOUT",
		"server.environment":         "EDIFIKA_SERVER_ENVIRONMENT",
		"db.host":                    "EDIFIKA_DB_HOST",
		"db.port":                    "EDIFIKA_DB_PORT",
		"db.user":                    "EDIFIKA_DB_USER",
		"db.password":                "EDIFIKA_DB_PASSWORD",
		"db.name":                    "EDIFIKA_DB_NAME",
		"db.sslmode":                 "EDIFIKA_DB_SSLMODE",
		"db.max_open":                "EDIFIKA_DB_MAX_OPEN",
		"db.max_idle":                "EDIFIKA_DB_MAX_IDLE",
		"jwt.secret":                 "EDIFIKA_JWT_SECRET",
		"jwt.access_expiry":          "EDIFIKA_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":         "EDIFIKA_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                 "EDIFIKA_JWT_ISSUER",
		"s3.region":                  "EDIFIKA_S3_REGION",
		"s3.bucket":                  "EDIFIKA_S3_BUCKET",
		"s3.endpoint":                "EDIFIKA_S3_ENDPOINT",
		"s3.access_key":              "EDIFIKA_S3_ACCESS_KEY",
		"s3.secret_key":              "EDIFIKA_S3_SECRET_KEY",
		"s3.presign_expiry":          "EDIFIKA_S3_PRESIGN_EXPIRY",
		"log.level":                  "EDIFIKA_LOG_LEVEL",
		"log.format":                 "EDIFIKA_LOG_FORMAT",
		"inference.base_url":         "EDIFIKA_INFERENCE_BASE_URL",
		"inference.api_key":          "EDIFIKA_INFERENCE_API_KEY",
		"inference.extract_model":    "EDIFIKA_INFERENCE_EXTRACT_MODEL",
		"inference.parse_model":      "EDIFIKA_INFERENCE_PARSE_MODEL",
		"inference.max_tokens":       "EDIFIKA_INFERENCE_MAX_TOKENS",
		"inference.timeout_secs":     "EDIFIKA_INFERENCE_TIMEOUT_SECS",
		"import.max_file_size_bytes": "EDIFIKA_IMPORT_MAX_FILE_SIZE_BYTES",
		"import.max_pages":           "EDIFIKA_IMPORT_MAX_PAGES",
		"cors.allowed_origins":       "EDIFIKA_CORS_ALLOWED_ORIGINS",
		"email.provider":             "EDIFIKA_EMAIL_PROVIDER",
		"email.region":               "EDIFIKA_EMAIL_REGION",
		"email.from_address":         "EDIFIKA_EMAIL_FROM_ADDRESS",
		"email.from_name":            "EDIFIKA_EMAIL_FROM_NAME",
		"email.frontend_url":         "EDIFIKA_EMAIL_FRONTEND_URL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if EDIFIKA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("EDIFIKA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Inference = InferenceConfig{
		BaseURL:      v.GetString("inference.base_url"),
		APIKey:       v.GetString("inference.api_key"),
		ExtractModel: v.GetString("inference.extract_model"),
		ParseModel:   v.GetString("inference.parse_model"),
		MaxTokens:    v.GetInt("inference.max_tokens"),
		TimeoutSecs:  v.GetInt("inference.timeout_secs"),
	}
	cfg.Import = ImportConfig{
		MaxFileSizeBytes: v.GetInt64("import.max_file_size_bytes"),
		MaxPages:         v.GetInt("import.max_pages"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	return cfg, nil
}
